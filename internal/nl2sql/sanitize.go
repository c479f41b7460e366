package nl2sql

import "strings"

const (
	requiredPrefix = "select"

	RejectNotSelect = "query does not start with SELECT"
)

// Verdict is the sanitizer decision: Accepted with the query to run, or
// rejected with a reason. Only accepted verdicts may reach the database.
type Verdict struct {
	Accepted bool
	Query    string
	Reason   string
}

func Accepted(query string) Verdict {
	return Verdict{Accepted: true, Query: query}
}

func Rejected(query, reason string) Verdict {
	return Verdict{Query: query, Reason: reason}
}

// Err returns nil for accepted verdicts and an *UnsafeQueryError otherwise.
func (v Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	return &UnsafeQueryError{Query: v.Query, Reason: v.Reason}
}

// Sanitize trims the completion, drops exactly one trailing ';' and accepts
// the result only when its lowercase form starts with "select". This is a
// prefix check; it does not parse SQL.
func Sanitize(completion string) Verdict {
	query := strings.TrimSpace(completion)
	query = strings.TrimSuffix(query, ";")
	if !strings.HasPrefix(strings.ToLower(query), requiredPrefix) {
		return Rejected(query, RejectNotSelect)
	}
	return Accepted(query)
}
