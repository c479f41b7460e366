// Package resultset models query results as ordered rows. JSON objects
// produced and consumed here keep the column order the database returned,
// which plain Go maps cannot do.
package resultset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Row struct {
	keys   []string
	values []any
}

// NewRow pairs columns with values. A repeated column name keeps its first
// position and takes the last value, like a JSON object built key by key.
func NewRow(columns []string, values []any) Row {
	row := Row{
		keys:   make([]string, 0, len(columns)),
		values: make([]any, 0, len(columns)),
	}
	for i, column := range columns {
		var value any
		if i < len(values) {
			value = values[i]
		}
		row.Set(column, value)
	}
	return row
}

func (r *Row) Set(key string, value any) {
	for i, existing := range r.keys {
		if existing == key {
			r.values[i] = value
			return
		}
	}
	r.keys = append(r.keys, key)
	r.values = append(r.values, value)
}

func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Row) Get(key string) (any, bool) {
	for i, existing := range r.keys {
		if existing == key {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r Row) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

func (r Row) Len() int {
	return len(r.keys)
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshal column %q: %w", key, err)
		}
		encodedValue, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("marshal value of column %q: %w", key, err)
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Row) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return fmt.Errorf("decode row: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode row: expected object, got %v", token)
	}

	decoded := Row{}
	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return fmt.Errorf("decode row key: %w", err)
		}
		key, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("decode row: unexpected key %v", keyToken)
		}
		var value any
		if err := decoder.Decode(&value); err != nil {
			return fmt.Errorf("decode value of column %q: %w", key, err)
		}
		decoded.Set(key, value)
	}
	if _, err := decoder.Token(); err != nil {
		return fmt.Errorf("decode row end: %w", err)
	}
	*r = decoded
	return nil
}

type ResultSet []Row

// FromColumns builds a result set from a column list and positional rows.
func FromColumns(columns []string, rows [][]any) ResultSet {
	out := make(ResultSet, 0, len(rows))
	for _, values := range rows {
		out = append(out, NewRow(columns, values))
	}
	return out
}

func (rs ResultSet) MarshalJSON() ([]byte, error) {
	if rs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Row(rs))
}
