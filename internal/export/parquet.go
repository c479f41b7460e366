package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/parquet-go/parquet-go"

	"github.com/askdata/askdata/internal/present"
	"github.com/askdata/askdata/internal/resultset"
)

// EncodeParquet writes rs as a single row group. Columns come from the first
// row; a column is DOUBLE when every non-null value is numeric and
// an optional UTF-8 string otherwise.
func EncodeParquet(rs resultset.ResultSet) ([]byte, error) {
	if len(rs) == 0 {
		return nil, fmt.Errorf("result set is empty")
	}
	columns := rs[0].Keys()

	group := make(parquet.Group, len(columns))
	numeric := make(map[string]bool, len(columns))
	for _, column := range columns {
		numeric[column] = columnIsNumeric(rs, column)
		if numeric[column] {
			group[column] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		} else {
			group[column] = parquet.Optional(parquet.String())
		}
	}
	schema := parquet.NewSchema("result", group)

	// Group fields are ordered by name; leaf indexes follow that order.
	fields := schema.Fields()
	rows := make([]parquet.Row, 0, len(rs))
	for _, row := range rs {
		values := make(parquet.Row, 0, len(fields))
		for index, field := range fields {
			name := field.Name()
			value, ok := row.Get(name)
			if !ok || value == nil {
				values = append(values, parquet.NullValue().Level(0, 0, index))
				continue
			}
			if numeric[name] {
				number, _ := toFloat(value)
				values = append(values, parquet.DoubleValue(number).Level(0, 1, index))
				continue
			}
			values = append(values, parquet.ByteArrayValue([]byte(present.FormatValue(value))).Level(0, 1, index))
		}
		rows = append(rows, values)
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewWriter(buf, schema)
	if _, err := writer.WriteRows(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

func columnIsNumeric(rs resultset.ResultSet, column string) bool {
	seen := false
	for _, row := range rs {
		value, ok := row.Get(column)
		if !ok || value == nil {
			continue
		}
		if _, isString := value.(string); isString {
			return false
		}
		if _, ok := toFloat(value); !ok {
			return false
		}
		seen = true
	}
	return seen
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case json.Number:
		number, err := strconv.ParseFloat(typed.String(), 64)
		if err != nil || math.IsInf(number, 0) {
			return 0, false
		}
		return number, true
	default:
		return 0, false
	}
}
