package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed upstream call by origin.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindTimeout      Kind = "timeout"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindRejected     Kind = "rejected"
	KindServer       Kind = "server"
)

var defaultMessages = map[Kind]string{
	KindNetwork:      "Network error - please check your connection.",
	KindTimeout:      "The server took too long to respond. Please try again.",
	KindUnauthorized: "Your session has expired. Please log in again.",
	KindForbidden:    "You do not have permission to do that.",
	KindNotFound:     "The requested resource was not found.",
	KindConflict:     "The request conflicts with the current state.",
	KindRejected:     "The request was rejected.",
	KindServer:       "Something went wrong on our side. Please try again later.",
}

// APIError is a failure reported by (or on the way to) the HomeHero API.
type APIError struct {
	Kind    Kind
	Status  int
	Message string

	// Redirect is set on the one unauthorized error that invalidated the session.
	Redirect bool
	Err      error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("homehero api %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("homehero api %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	ae, ok := AsAPIError(err)
	return ok && ae.Kind == kind
}

func Network(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: defaultMessages[KindNetwork], Err: err}
}

func Timeout(err error) *APIError {
	return &APIError{Kind: KindTimeout, Message: defaultMessages[KindTimeout], Err: err}
}

// KindForStatus maps an HTTP status from the API to an error kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500:
		return KindServer
	default:
		return KindRejected
	}
}

// Classify builds an APIError from a non-2xx response, extracting the
// backend's message when the payload carries one.
func Classify(status int, body []byte) *APIError {
	kind := KindForStatus(status)
	msg := ExtractMessage(body)
	if msg == "" {
		msg = defaultMessages[kind]
	}
	return &APIError{Kind: kind, Status: status, Message: msg}
}

// ExtractMessage reads `detail` (string or list of {msg}) or `message`
// from an error payload. Returns "" when nothing usable is present.
func ExtractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func DefaultMessage(kind Kind) string {
	return defaultMessages[kind]
}
