package migrations

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/warehouse"
)

func TestLoadMigrationsSortsAndPairsUpDown(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000002_two.up.sql":   {Data: []byte("SELECT 2;")},
		"sql/000002_two.down.sql": {Data: []byte("SELECT -2;")},
		"sql/000001_one.up.sql":   {Data: []byte("SELECT 1;")},
		"sql/000001_one.down.sql": {Data: []byte("SELECT -1;")},
	}

	items, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d", len(items))
	}
	if items[0].Version != 1 || items[1].Version != 2 {
		t.Fatalf("unexpected migration order: %+v", items)
	}
}

func TestLoadMigrationsErrorsWhenDownMissing(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/000001_one.up.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := loadMigrations(fsys)
	if err == nil {
		t.Fatal("expected error for missing down migration")
	}
	if !strings.Contains(err.Error(), "missing down SQL") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmbeddedDemoSchema(t *testing.T) {
	items, err := loadMigrations(embeddedFS)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d", len(items))
	}
	for _, snippet := range []string{
		"CREATE TABLE customers",
		"CREATE TABLE orders",
		"CREATE TABLE order_items",
		"CREATE TABLE products",
	} {
		if !strings.Contains(items[0].UpSQL, snippet) {
			t.Fatalf("demo schema missing %q", snippet)
		}
	}
	if !strings.Contains(items[1].UpSQL, "CREATE VIEW order_totals") {
		t.Fatalf("second migration = %q", items[1].UpSQL)
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (id INTEGER);\n\n DROP TABLE b ;\n;")
	if len(got) != 2 || got[0] != "CREATE TABLE a (id INTEGER)" || got[1] != "DROP TABLE b" {
		t.Fatalf("splitStatements() = %q", got)
	}
}

func TestUpMarksVersionWithDialectPlaceholder(t *testing.T) {
	cases := []struct {
		driver string
		insert string
	}{
		{config.DriverMySQL, "INSERT INTO askdata_schema_migrations (version) VALUES (?)"},
		{config.DriverPostgres, "INSERT INTO askdata_schema_migrations (version) VALUES ($1)"},
	}
	for _, tc := range cases {
		t.Run(tc.driver, func(t *testing.T) {
			dialect, err := warehouse.DialectFor(tc.driver)
			if err != nil {
				t.Fatalf("DialectFor() error = %v", err)
			}
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New() error = %v", err)
			}
			defer func() { _ = db.Close() }()

			mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS askdata_schema_migrations")).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM askdata_schema_migrations ORDER BY version ASC")).
				WillReturnRows(sqlmock.NewRows([]string{"version"}))
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id INTEGER)")).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id INTEGER)")).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec(regexp.QuoteMeta(tc.insert)).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectCommit()

			runner := &Runner{
				fsys: fstest.MapFS{
					"sql/000001_one.up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);\nCREATE TABLE b (id INTEGER);\n")},
					"sql/000001_one.down.sql": {Data: []byte("DROP TABLE b;\nDROP TABLE a;\n")},
				},
				dialect: dialect,
			}
			applied, err := runner.Up(context.Background(), db, 0)
			if err != nil {
				t.Fatalf("Up() error = %v", err)
			}
			if applied != 1 {
				t.Fatalf("Up() applied = %d", applied)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations: %v", err)
			}
		})
	}
}

func TestUpRollsBackFailedMigration(t *testing.T) {
	dialect, _ := warehouse.DialectFor(config.DriverMySQL)
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS askdata_schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM askdata_schema_migrations ORDER BY version ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id INTEGER)")).WillReturnError(errors.New("table exists"))
	mock.ExpectRollback()

	runner := &Runner{
		fsys: fstest.MapFS{
			"sql/000001_one.up.sql":   {Data: []byte("CREATE TABLE a (id INTEGER);")},
			"sql/000001_one.down.sql": {Data: []byte("DROP TABLE a;")},
		},
		dialect: dialect,
	}
	applied, err := runner.Up(context.Background(), db, 0)
	if err == nil || !strings.Contains(err.Error(), "apply migration 1") {
		t.Fatalf("Up() error = %v", err)
	}
	if applied != 0 {
		t.Fatalf("Up() applied = %d", applied)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRunnerAppliesAndRollsBackDemoSchema(t *testing.T) {
	cases := []struct {
		driver string
		open   func() (*sql.DB, error)
	}{
		{config.DriverSQLite, func() (*sql.DB, error) { return sql.Open("sqlite3", ":memory:") }},
		{config.DriverDuckDB, func() (*sql.DB, error) { return sql.Open("duckdb", "") }},
	}
	for _, tc := range cases {
		t.Run(tc.driver, func(t *testing.T) {
			db, err := tc.open()
			if err != nil {
				t.Fatalf("sql.Open() error = %v", err)
			}
			defer func() { _ = db.Close() }()
			db.SetMaxOpenConns(1)

			dialect, err := warehouse.DialectFor(tc.driver)
			if err != nil {
				t.Fatalf("DialectFor() error = %v", err)
			}
			runner := NewRunner(dialect)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			applied, err := runner.Up(ctx, db, 0)
			if err != nil {
				t.Fatalf("Up() error = %v", err)
			}
			if applied != 2 {
				t.Fatalf("Up() applied = %d, want 2", applied)
			}
			pending, err := runner.Pending(ctx, db)
			if err != nil || len(pending) != 0 {
				t.Fatalf("Pending() = %v, %v", pending, err)
			}
			assertQueryable(t, db, "order_totals", true)

			if n, err := runner.Down(ctx, db, 1); err != nil || n != 1 {
				t.Fatalf("Down(1) = %d, %v", n, err)
			}
			assertQueryable(t, db, "order_totals", false)
			assertQueryable(t, db, "customers", true)

			if n, err := runner.Down(ctx, db, 1); err != nil || n != 1 {
				t.Fatalf("Down(1) = %d, %v", n, err)
			}
			assertQueryable(t, db, "customers", false)

			pending, err = runner.Pending(ctx, db)
			if err != nil || len(pending) != 2 || pending[0] != 1 {
				t.Fatalf("Pending() = %v, %v", pending, err)
			}
		})
	}
}

func assertQueryable(t *testing.T, db *sql.DB, relation string, want bool) {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ` + relation).Scan(&count)
	if got := err == nil; got != want {
		t.Fatalf("relation %s queryable = %v (err=%v), want %v", relation, got, err, want)
	}
}
