package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a client-side check that blocked the request.
	KindValidation
	// KindAuthorization is a 401/403 answer; the session must be cleared.
	KindAuthorization
	// KindServer is a 5xx answer.
	KindServer
	// KindRequest is any other non-success answer.
	KindRequest
	// KindNetwork is a transport failure; no answer was received.
	KindNetwork
	// KindUnexpectedResponse is a success answer missing expected fields.
	KindUnexpectedResponse
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindAuthorization:
		return "authorization error"
	case KindServer:
		return "server error"
	case KindRequest:
		return "request error"
	case KindNetwork:
		return "network error"
	case KindUnexpectedResponse:
		return "unexpected response"
	default:
		return "error"
	}
}

// Op names a backend operation in user-facing messages.
type Op string

const (
	OpListTasks   Op = "fetch the tasks"
	OpCreateTask  Op = "create the task"
	OpUpdateTask  Op = "update the task"
	OpDeleteTask  Op = "delete the task"
	OpUploadImage Op = "upload the image"
	OpLogin       Op = "sign in"
)

// Error is the error type returned by gateways and validation.
type Error struct {
	Kind    Kind
	Op      Op
	Status  int    // HTTP status, 0 if no response
	Message string // displayable message
	Details string // raw response body, if any
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// StatusError builds the error for a non-success HTTP answer.
func StatusError(op Op, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status, Details: string(body)}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuthorization
		if op == OpLogin {
			e.Message = "incorrect email or password"
		} else {
			e.Message = "session expired or unauthorized while trying to " + string(op)
		}
	case status >= 500:
		e.Kind = KindServer
		e.Message = "server error while trying to " + string(op)
	default:
		e.Kind = KindRequest
		e.Message = "failed to " + string(op)
		if msg := BackendMessage(body); msg != "" {
			e.Message += ": " + msg
		}
	}
	return e
}

// NetworkError wraps a transport failure.
func NetworkError(op Op, err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Op:      op,
		Message: "could not reach the server to " + string(op),
		Err:     err,
	}
}

// UnexpectedResponse reports a success answer that lacks required data.
func UnexpectedResponse(op Op, msg string) *Error {
	return &Error{Kind: KindUnexpectedResponse, Op: op, Message: msg}
}

// ValidationError reports a client-side check failure.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsAuthorization reports whether err is a 401/403 answer.
func IsAuthorization(err error) bool {
	return KindOf(err) == KindAuthorization
}

// IsValidation reports whether err is a client-side validation failure.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// maxRawMessage bounds how much of a non-JSON body ends up in a message.
const maxRawMessage = 200

// BackendMessage extracts a human-readable message from an error body.
// JSON objects yield the first non-empty string among message, error,
// title and detail. Other bodies yield their trimmed text.
func BackendMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, key := range []string{"message", "error", "title", "detail"} {
			if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	if len(text) > maxRawMessage {
		text = text[:maxRawMessage] + "..."
	}
	return text
}
