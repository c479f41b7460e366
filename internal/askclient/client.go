package askclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/askdata/askdata/internal/resultset"
)

// FallbackMessage is shown when a failed response carries no error text.
const FallbackMessage = "Failed to get answer"

type Answer struct {
	SQL     string              `json:"sql"`
	Results resultset.ResultSet `json:"results"`
}

// Error is a non-2xx answer from the backend, or a transport failure.
type Error struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Ask posts question to the backend. Any failure, including an unreachable
// backend, is returned as *Error so callers can show Message as is.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	payload, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return Answer{}, fmt.Errorf("encode ask request: %w", err)
	}

	code, body, err := c.do(ctx, http.MethodPost, "/ask", payload)
	if err != nil {
		return Answer{}, &Error{Message: FallbackMessage, Details: err.Error()}
	}
	if code < 200 || code > 299 {
		return Answer{}, decodeError(code, body)
	}

	var answer Answer
	if err := json.Unmarshal(body, &answer); err != nil {
		return Answer{}, &Error{StatusCode: code, Message: FallbackMessage, Details: err.Error()}
	}
	if answer.Results == nil {
		answer.Results = resultset.ResultSet{}
	}
	return answer, nil
}

// Health returns the decoded /v1/health payload.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	code, body, err := c.do(ctx, http.MethodGet, "/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("health request: %w", err)
	}
	if code >= 400 {
		return nil, fmt.Errorf("http %d: %s", code, strings.TrimSpace(string(body)))
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func decodeError(code int, body []byte) *Error {
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return &Error{StatusCode: code, Message: FallbackMessage}
	}
	return &Error{StatusCode: code, Message: payload.Error, Details: payload.Details}
}
