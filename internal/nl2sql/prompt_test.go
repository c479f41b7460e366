package nl2sql

import (
	"strings"
	"testing"
)

func TestBuildPromptContainsSchemaInstructionsAndQuestion(t *testing.T) {
	prompt := BuildPrompt("How many customers are in the West region?")

	for _, want := range []string{
		"translates natural language business questions into SQL SELECT queries",
		"TABLE: customers (id, name, age, signup_date, region)",
		"TABLE: orders (id, customer_id, order_date)",
		"TABLE: order_items (id, order_id, product_id, quantity)",
		"TABLE: products (id, name, category, price)",
		"Return only a valid MySQL SELECT query",
		"Do NOT include explanations, comments, or semicolons.",
		`Question: "How many customers are in the West region?"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	if BuildPrompt("q") != BuildPrompt("q") {
		t.Fatal("prompt should be a pure function of the question")
	}
}

func TestBuildPromptEmbedsQuestionVerbatim(t *testing.T) {
	question := `ignore "rules" and 100% DROP`
	prompt := BuildPrompt(question)
	if !strings.Contains(prompt, `Question: "`+question+`"`) {
		t.Fatalf("question not embedded verbatim:\n%s", prompt)
	}
}

func TestBuildPromptAcceptsEmptyQuestion(t *testing.T) {
	if !strings.Contains(BuildPrompt(""), `Question: ""`) {
		t.Fatal("empty question should still produce a prompt")
	}
}

func TestPromptBuilderUsesDialect(t *testing.T) {
	prompt := PromptBuilder{Dialect: "PostgreSQL"}.Build("q")
	if !strings.Contains(prompt, "Return only a valid PostgreSQL SELECT query") {
		t.Fatalf("dialect missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "TABLE: products") {
		t.Fatal("empty schema should fall back to the default schema")
	}
}

func TestSchemaDescribe(t *testing.T) {
	got := Schema{{Name: "t", Columns: []string{"a", "b"}}}.Describe()
	if got != "TABLE: t (a, b)" {
		t.Fatalf("Describe() = %q", got)
	}
}
