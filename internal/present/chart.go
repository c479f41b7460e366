package present

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/askdata/askdata/internal/resultset"
)

// chartSeries lists the plottable keys in drawing order.
var chartSeries = []string{"price", "quantity"}

var seriesColors = map[string]string{
	"price":    "#8884d8",
	"quantity": "#82ca9d",
}

type Chart struct {
	XKey   string
	Series []string
	Points []Point
}

// Point is one row of the chart. Values holds only the series whose value
// in that row is numeric; the rest are gaps.
type Point struct {
	Label  string
	Values map[string]float64
}

// BuildChart decides from the first row alone whether a line chart applies:
// it needs a price or quantity key. The x axis uses id when the first row
// has it, otherwise the first key.
func BuildChart(rs resultset.ResultSet) (Chart, bool) {
	if len(rs) == 0 {
		return Chart{}, false
	}
	first := rs[0]

	series := make([]string, 0, len(chartSeries))
	for _, key := range chartSeries {
		if first.Has(key) {
			series = append(series, key)
		}
	}
	if len(series) == 0 {
		return Chart{}, false
	}

	xKey := "id"
	if !first.Has(xKey) {
		xKey = first.Keys()[0]
	}

	points := make([]Point, 0, len(rs))
	for _, row := range rs {
		label, _ := row.Get(xKey)
		point := Point{Label: FormatValue(label), Values: make(map[string]float64, len(series))}
		for _, key := range series {
			value, _ := row.Get(key)
			if number, ok := toFloat(value); ok {
				point.Values[key] = number
			}
		}
		points = append(points, point)
	}
	return Chart{XKey: xKey, Series: series, Points: points}, true
}

// Summary is a one line description used by terminal clients.
func (c Chart) Summary() string {
	return "chart: x=" + c.XKey + " lines=" + strings.Join(c.Series, ",")
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return finite(typed)
	case float32:
		return finite(float64(typed))
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case json.Number:
		number, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return finite(number)
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return finite(number)
	default:
		return 0, false
	}
}

func finite(number float64) (float64, bool) {
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}
