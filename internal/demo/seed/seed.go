package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/askdata/askdata/internal/warehouse"
)

// Counts reports how many rows were written per table.
type Counts struct {
	Customers  int
	Products   int
	Orders     int
	OrderItems int
}

type Loader struct {
	db      *sql.DB
	dialect warehouse.Dialect
	log     *slog.Logger
}

func NewLoader(db *sql.DB, dialect warehouse.Dialect, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{db: db, dialect: dialect, log: logger}
}

// resetOrder deletes children before parents.
var resetOrder = []string{"order_items", "orders", "products", "customers"}

// Load writes data in one transaction. With reset set, existing demo rows are
// removed first so the load can be repeated.
func (l *Loader) Load(ctx context.Context, data Dataset, reset bool) (Counts, error) {
	if l.db == nil {
		return Counts{}, fmt.Errorf("database pool is required")
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if reset {
		for _, table := range resetOrder {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return Counts{}, fmt.Errorf("reset %s: %w", table, err)
			}
		}
	}

	var counts Counts
	counts.Customers, err = l.insert(ctx, tx, "customers", []string{"id", "name", "age", "signup_date", "region"}, len(data.Customers), func(i int) []any {
		c := data.Customers[i]
		return []any{c.ID, c.Name, c.Age, formatDate(c.SignupDate), c.Region}
	})
	if err != nil {
		return Counts{}, err
	}
	counts.Products, err = l.insert(ctx, tx, "products", []string{"id", "name", "category", "price"}, len(data.Products), func(i int) []any {
		p := data.Products[i]
		return []any{p.ID, p.Name, p.Category, p.Price}
	})
	if err != nil {
		return Counts{}, err
	}
	counts.Orders, err = l.insert(ctx, tx, "orders", []string{"id", "customer_id", "order_date"}, len(data.Orders), func(i int) []any {
		o := data.Orders[i]
		return []any{o.ID, o.CustomerID, formatDate(o.OrderDate)}
	})
	if err != nil {
		return Counts{}, err
	}
	counts.OrderItems, err = l.insert(ctx, tx, "order_items", []string{"id", "order_id", "product_id", "quantity"}, len(data.OrderItems), func(i int) []any {
		item := data.OrderItems[i]
		return []any{item.ID, item.OrderID, item.ProductID, item.Quantity}
	})
	if err != nil {
		return Counts{}, err
	}

	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("commit seed: %w", err)
	}
	l.log.Info("demo data loaded",
		slog.Int("customers", counts.Customers),
		slog.Int("products", counts.Products),
		slog.Int("orders", counts.Orders),
		slog.Int("order_items", counts.OrderItems),
	)
	return counts, nil
}

func (l *Loader) insert(ctx context.Context, tx *sql.Tx, table string, columns []string, n int, args func(int) []any) (int, error) {
	if n == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, insertStatement(l.dialect, table, columns))
	if err != nil {
		return 0, fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return i, fmt.Errorf("insert %s row %d: %w", table, i+1, err)
		}
	}
	return n, nil
}

func insertStatement(dialect warehouse.Dialect, table string, columns []string) string {
	markers := make([]string, len(columns))
	for i := range columns {
		markers[i] = dialect.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(markers, ", "))
}

// Dates go over the wire as ISO strings; SQLite has no DATE type and stores
// whatever text it is given.
func formatDate(at time.Time) string {
	return at.UTC().Format(time.DateOnly)
}
