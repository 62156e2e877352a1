package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/common"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Detail is the backend's "detail" message, if it sent one.
	Detail    string
	RequestID string
	// Err is the sentinel for the status class, if any.
	Err error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrForbidden
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return common.ErrUnavailable
	}
	return nil
}

// errorBody accepts both {"detail": "msg"} and the list form used for
// request validation failures: {"detail": [{"msg": "...", "loc": [...]}]}.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
	Loc []any  `json:"loc"`
}

func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var items []validationItem
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if n := len(it.Loc); n > 0 {
				msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[n-1], it.Msg))
				continue
			}
			msgs = append(msgs, it.Msg)
		}
		return strings.Join(msgs, "; ")
	}

	return strings.Trim(string(eb.Detail), `"`)
}

func newAPIError(status int, body []byte, requestID string) *APIError {
	return &APIError{
		Status:    status,
		Detail:    parseDetail(body),
		RequestID: requestID,
		Err:       sentinelFor(status),
	}
}
