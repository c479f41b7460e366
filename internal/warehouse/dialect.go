package warehouse

import (
	"fmt"
	"strconv"

	"github.com/askdata/askdata/internal/config"
)

type Dialect struct {
	// DriverName is the database/sql driver registration name.
	DriverName string
	// PromptName is how the dialect is named to the language model.
	PromptName string
	numbered   bool
}

// Placeholder returns the bind parameter marker for the 1-based position n.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverMySQL:
		return Dialect{DriverName: "mysql", PromptName: "MySQL"}, nil
	case config.DriverPostgres:
		return Dialect{DriverName: "pgx", PromptName: "PostgreSQL", numbered: true}, nil
	case config.DriverDuckDB:
		return Dialect{DriverName: "duckdb", PromptName: "DuckDB"}, nil
	case config.DriverSQLite:
		return Dialect{DriverName: "sqlite3", PromptName: "SQLite"}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}
