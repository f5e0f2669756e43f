package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// fallbackMessage is used when the error body parses but carries no detail
const fallbackMessage = "Request failed"

// maxErrorBody caps how much of a failed response is read
const maxErrorBody = 64 << 10

// APIError is returned for every non-2xx backend response
type APIError struct {
	Message    string // backend detail, or the HTTP status text
	StatusCode int
	Code       string // optional backend error code, empty when not sent
}

func (e *APIError) Error() string {
	return e.Message
}

// errorEnvelope is the backend failure body: {"detail": "..."} with an optional code.
// FastAPI validation failures send detail as a list of {"msg": ...} objects.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
	Code   string          `json:"code"`
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		apiErr.Message = statusText(resp)
		return apiErr
	}

	apiErr.Code = env.Code
	apiErr.Message = detailMessage(env.Detail)
	if apiErr.Message == "" {
		apiErr.Message = fallbackMessage
	}
	return apiErr
}

// statusText returns the reason phrase of the status line, e.g. "Internal Server Error"
func statusText(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fallbackMessage
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		var msgs []string
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return string(raw)
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 or 403 from the backend
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
