package nl2sql

import "strings"

type Table struct {
	Name    string
	Columns []string
}

type Schema []Table

// DefaultSchema is the fixed set of tables the model may reference.
var DefaultSchema = Schema{
	{Name: "customers", Columns: []string{"id", "name", "age", "signup_date", "region"}},
	{Name: "orders", Columns: []string{"id", "customer_id", "order_date"}},
	{Name: "order_items", Columns: []string{"id", "order_id", "product_id", "quantity"}},
	{Name: "products", Columns: []string{"id", "name", "category", "price"}},
}

// Describe renders one "TABLE: name (col, ...)" line per table.
func (s Schema) Describe() string {
	lines := make([]string, 0, len(s))
	for _, table := range s {
		lines = append(lines, "TABLE: "+table.Name+" ("+strings.Join(table.Columns, ", ")+")")
	}
	return strings.Join(lines, "\n")
}
