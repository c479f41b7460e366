package warehouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/askdata/askdata/internal/resultset"
)

// QueryExecutionError carries the driver message of a failed query.
type QueryExecutionError struct {
	Query string
	Err   error
}

func (e *QueryExecutionError) Error() string {
	return e.Err.Error()
}

func (e *QueryExecutionError) Unwrap() error {
	return e.Err
}

// Executor runs already sanitized SQL against a pool it does not own.
type Executor struct {
	db *sql.DB
}

func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Execute acquires one connection for the duration of the call and submits
// sqlText verbatim: no parameters, no transaction, no added timeout.
func (e *Executor) Execute(ctx context.Context, sqlText string) (resultset.ResultSet, error) {
	if e.db == nil {
		return nil, fmt.Errorf("database pool is required")
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, &QueryExecutionError{Query: sqlText, Err: fmt.Errorf("acquire connection: %w", err)}
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, &QueryExecutionError{Query: sqlText, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &QueryExecutionError{Query: sqlText, Err: fmt.Errorf("query columns: %w", err)}
	}
	numeric := numericColumns(rows)

	out := make(resultset.ResultSet, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, &QueryExecutionError{Query: sqlText, Err: fmt.Errorf("scan row: %w", err)}
		}
		out = append(out, resultset.NewRow(columns, normalizeValues(values, numeric)))
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryExecutionError{Query: sqlText, Err: err}
	}
	return out, nil
}

func (e *Executor) Ping(ctx context.Context) error {
	if e.db == nil {
		return fmt.Errorf("database pool is required")
	}
	return e.db.PingContext(ctx)
}

func numericColumns(rows *sql.Rows) []bool {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil
	}
	numeric := make([]bool, len(types))
	for i, columnType := range types {
		numeric[i] = isNumericType(columnType.DatabaseTypeName())
	}
	return numeric
}

func isNumericType(name string) bool {
	name = strings.ToUpper(name)
	if strings.HasPrefix(name, "UNSIGNED ") {
		name = strings.TrimPrefix(name, "UNSIGNED ")
	}
	switch name {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT",
		"INT2", "INT4", "INT8", "HUGEINT", "UBIGINT", "UINTEGER", "USMALLINT", "UTINYINT",
		"DECIMAL", "NUMERIC", "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE", "REAL", "YEAR":
		return true
	default:
		return false
	}
}

// normalizeValues turns driver byte slices into JSON friendly values:
// numbers for numeric columns, strings otherwise.
func normalizeValues(values []any, numeric []bool) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			if i < len(numeric) && numeric[i] && json.Valid(typed) {
				normalized[i] = json.Number(string(typed))
				continue
			}
			normalized[i] = string(typed)
		case interface{ Float64() float64 }:
			// duckdb.Decimal and similar fixed point types
			normalized[i] = typed.Float64()
		default:
			normalized[i] = typed
		}
	}
	return normalized
}
