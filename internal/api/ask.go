package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/askdata/askdata/internal/ask"
)

const (
	msgOracleFailed    = "Failed to generate or execute SQL"
	msgRejected        = "Only safe SELECT queries are allowed"
	msgExecutionFailed = "SQL query error"
	msgInvalidBody     = "invalid ask request body"
)

type askRequest struct {
	Question string `json:"question"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Asker == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ask pipeline is not configured", "")
		return
	}

	// Unknown fields and an empty body leave Question empty; it is passed on
	// unvalidated. Only bodies that are not JSON are refused.
	var request askRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		writeError(r.Context(), w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}

	resp, err := deps.Asker.Ask(r.Context(), request.Question)
	if err != nil {
		status, message, details := askErrorPayload(err)
		writeError(r.Context(), w, status, message, details)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// askErrorPayload maps a terminal pipeline state onto the HTTP contract.
// Rejections never carry details.
func askErrorPayload(err error) (int, string, string) {
	var stageErr *ask.StageError
	if !errors.As(err, &stageErr) {
		return http.StatusInternalServerError, msgOracleFailed, err.Error()
	}

	switch stageErr.State {
	case ask.StateRejected:
		return http.StatusBadRequest, msgRejected, ""
	case ask.StateExecutionFailed:
		return http.StatusInternalServerError, msgExecutionFailed, stageErr.Err.Error()
	default:
		// The full oracle message, including any transport cause.
		return http.StatusInternalServerError, msgOracleFailed, stageErr.Err.Error()
	}
}
