package present

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/askdata/askdata/internal/resultset"
)

const NoDataMessage = "No data returned."

type Table struct {
	Columns []string
	Rows    [][]string
}

// BuildTable lays rs out with the first row's keys as columns. Later rows
// are projected onto those columns: missing keys render empty and keys the
// first row lacks are dropped. It returns false when there is nothing to show.
func BuildTable(rs resultset.ResultSet) (Table, bool) {
	if len(rs) == 0 {
		return Table{}, false
	}

	columns := rs[0].Keys()
	rows := make([][]string, 0, len(rs))
	for _, row := range rs {
		cells := make([]string, len(columns))
		for i, column := range columns {
			if value, ok := row.Get(column); ok {
				cells[i] = FormatValue(value)
			}
		}
		rows = append(rows, cells)
	}
	return Table{Columns: columns, Rows: rows}, true
}

// FormatValue renders a scalar cell. Nil is empty; composite values are
// shown as compact JSON.
func FormatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(typed)
	case []byte:
		return string(typed)
	case fmt.Stringer:
		return typed.String()
	case map[string]any, []any:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	default:
		return fmt.Sprint(typed)
	}
}
