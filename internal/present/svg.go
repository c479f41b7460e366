package present

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

const (
	svgWidth        = 800
	svgHeight       = 300
	svgMarginLeft   = 60
	svgMarginRight  = 20
	svgMarginTop    = 10
	svgMarginBottom = 30
	svgYTicks       = 5
	svgMaxXLabels   = 20
)

// SVG renders the chart as a standalone line chart: categorical x positions,
// a linear y axis starting at zero (or the minimum when negative) and one
// polyline per series. Non-numeric values break the line.
func (c Chart) SVG() string {
	plotWidth := float64(svgWidth - svgMarginLeft - svgMarginRight)
	plotHeight := float64(svgHeight - svgMarginTop - svgMarginBottom)
	lo, hi := c.valueRange()

	xAt := func(i int) float64 {
		if len(c.Points) <= 1 {
			return svgMarginLeft + plotWidth/2
		}
		return svgMarginLeft + plotWidth*float64(i)/float64(len(c.Points)-1)
	}
	yAt := func(v float64) float64 {
		return svgMarginTop + plotHeight*(1-(v-lo)/(hi-lo))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="chart" viewBox="0 0 %d %d" width="100%%" height="%d" role="img">`, svgWidth, svgHeight, svgHeight)

	for i := 0; i <= svgYTicks; i++ {
		value := lo + (hi-lo)*float64(i)/svgYTicks
		y := yAt(value)
		fmt.Fprintf(&b, `<line x1="%d" y1="%s" x2="%d" y2="%s" stroke="#ccc"/>`, svgMarginLeft, coord(y), svgWidth-svgMarginRight, coord(y))
		fmt.Fprintf(&b, `<text x="%d" y="%s" text-anchor="end" font-size="12" fill="#666">%s</text>`, svgMarginLeft-6, coord(y+4), formatTick(value))
	}

	step := 1
	if len(c.Points) > svgMaxXLabels {
		step = int(math.Ceil(float64(len(c.Points)) / svgMaxXLabels))
	}
	for i, point := range c.Points {
		x := xAt(i)
		fmt.Fprintf(&b, `<line x1="%s" y1="%d" x2="%s" y2="%d" stroke="#ccc"/>`, coord(x), svgMarginTop, coord(x), svgHeight-svgMarginBottom)
		if i%step == 0 {
			fmt.Fprintf(&b, `<text x="%s" y="%d" text-anchor="middle" font-size="12" fill="#666">%s</text>`, coord(x), svgHeight-svgMarginBottom+18, html.EscapeString(point.Label))
		}
	}

	for _, key := range c.Series {
		color := seriesColors[key]
		for _, segment := range c.segments(key) {
			coords := make([]string, 0, len(segment))
			for _, i := range segment {
				coords = append(coords, coord(xAt(i))+","+coord(yAt(c.Points[i].Values[key])))
			}
			fmt.Fprintf(&b, `<polyline fill="none" stroke="%s" stroke-width="2" points="%s"/>`, color, strings.Join(coords, " "))
		}
		for i, point := range c.Points {
			value, ok := point.Values[key]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="3" fill="#fff" stroke="%s"><title>%s %s: %s</title></circle>`,
				coord(xAt(i)), coord(yAt(value)), color, html.EscapeString(point.Label), key, formatTick(value))
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

// segments splits the indexes holding a value for key into runs of
// consecutive points.
func (c Chart) segments(key string) [][]int {
	var out [][]int
	var current []int
	for i, point := range c.Points {
		if _, ok := point.Values[key]; ok {
			current = append(current, i)
			continue
		}
		if len(current) > 0 {
			out = append(out, current)
			current = nil
		}
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func (c Chart) valueRange() (float64, float64) {
	lo, hi := 0.0, 0.0
	for _, point := range c.Points {
		for _, value := range point.Values {
			lo = math.Min(lo, value)
			hi = math.Max(hi, value)
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
