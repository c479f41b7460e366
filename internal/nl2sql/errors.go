package nl2sql

import "fmt"

// OracleError reports a failed or empty completion call.
type OracleError struct {
	Message string
	Err     error
}

func (e *OracleError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

type UnsafeQueryError struct {
	Query  string
	Reason string
}

func (e *UnsafeQueryError) Error() string {
	return "unsafe query rejected: " + e.Reason
}
