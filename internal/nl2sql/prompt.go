package nl2sql

import "fmt"

const promptTemplate = `
You are an AI assistant that translates natural language business questions into SQL SELECT queries.
Use only the following tables and columns:

%s

Return only a valid %s SELECT query based on the question below.
Do NOT include explanations, comments, or semicolons.

Question: "%s"
`

type PromptBuilder struct {
	Schema  Schema
	Dialect string
}

// BuildPrompt renders the prompt for the default schema and MySQL dialect.
func BuildPrompt(question string) string {
	return PromptBuilder{Schema: DefaultSchema, Dialect: "MySQL"}.Build(question)
}

// Build embeds question verbatim; it is not escaped.
func (b PromptBuilder) Build(question string) string {
	schema := b.Schema
	if len(schema) == 0 {
		schema = DefaultSchema
	}
	dialect := b.Dialect
	if dialect == "" {
		dialect = "MySQL"
	}
	return fmt.Sprintf(promptTemplate, schema.Describe(), dialect, question)
}
