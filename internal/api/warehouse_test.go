package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/askdata/askdata/internal/ask"
	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/demo/seed"
	"github.com/askdata/askdata/internal/migrations"
	"github.com/askdata/askdata/internal/nl2sql"
	"github.com/askdata/askdata/internal/warehouse"
)

type scriptedCompleter map[string]string

func (s scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	for question, answer := range s {
		if strings.Contains(prompt, `Question: "`+question+`"`) {
			return answer, nil
		}
	}
	return "", &nl2sql.OracleError{Message: "unexpected prompt"}
}

func newSeededPipeline(t *testing.T, completer nl2sql.Completer) (*ask.Pipeline, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	dialect, err := warehouse.DialectFor(config.DriverSQLite)
	if err != nil {
		t.Fatalf("DialectFor() error = %v", err)
	}
	ctx := context.Background()
	if _, err := migrations.NewRunner(dialect).Up(ctx, db, 0); err != nil {
		t.Fatalf("migrations Up() error = %v", err)
	}
	cfg := seed.DefaultConfig()
	cfg.Customers = 40
	cfg.Orders = 80
	if _, err := seed.NewLoader(db, dialect, nil).Load(ctx, seed.Generate(cfg), false); err != nil {
		t.Fatalf("seed Load() error = %v", err)
	}

	return &ask.Pipeline{
		Prompts:   nl2sql.PromptBuilder{Schema: nl2sql.DefaultSchema, Dialect: dialect.PromptName},
		Completer: completer,
		Executor:  warehouse.NewExecutor(db),
	}, db
}

func countCustomers(t *testing.T, db *sql.DB, where string) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM customers ` + where).Scan(&n); err != nil {
		t.Fatalf("count customers: %v", err)
	}
	return n
}

func TestAskAgainstSeededWarehouse(t *testing.T) {
	pipeline, db := newSeededPipeline(t, scriptedCompleter{
		"How many customers are in the West region?": "SELECT COUNT(*) AS total FROM customers WHERE region = 'West';",
		"Delete every customer":                      "DELETE FROM customers",
		"Show the revenue column":                    "SELECT revenue FROM customers",
	})
	deps := Dependencies{Asker: pipeline}
	want := countCustomers(t, db, `WHERE region = 'West'`)

	rr := postAsk(t, deps, `{"question":"How many customers are in the West region?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	var answer struct {
		SQL     string                   `json:"sql"`
		Results []map[string]json.Number `json:"results"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &answer); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if answer.SQL != "SELECT COUNT(*) AS total FROM customers WHERE region = 'West'" {
		t.Fatalf("sql = %q", answer.SQL)
	}
	if len(answer.Results) != 1 || answer.Results[0]["total"].String() != strconv.FormatInt(want, 10) {
		t.Fatalf("results = %v, want total %d", answer.Results, want)
	}

	before := countCustomers(t, db, "")
	rr = postAsk(t, deps, `{"question":"Delete every customer"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	if after := countCustomers(t, db, ""); after != before {
		t.Fatalf("customers changed from %d to %d", before, after)
	}

	rr = postAsk(t, deps, `{"question":"Show the revenue column"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	if body["error"] != msgExecutionFailed || !strings.Contains(body["details"].(string), "revenue") {
		t.Fatalf("body = %v", body)
	}
}
