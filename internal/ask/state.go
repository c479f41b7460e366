package ask

import "fmt"

// State is a step of a single ask request.
type State string

const (
	StateReceived  State = "received"
	StatePrompted  State = "prompted"
	StateCompleted State = "completed"
	StateSanitized State = "sanitized"
	StateExecuted  State = "executed"
	StateResponded State = "responded"

	StateOracleFailed    State = "oracle_failed"
	StateRejected        State = "rejected"
	StateExecutionFailed State = "execution_failed"
)

// Terminal reports whether no further transition leaves s.
func (s State) Terminal() bool {
	switch s {
	case StateResponded, StateOracleFailed, StateRejected, StateExecutionFailed:
		return true
	default:
		return false
	}
}

// StageError names the terminal state a failed request ended in.
type StageError struct {
	State State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("ask %s: %v", e.State, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
