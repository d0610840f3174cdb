package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// Kind classifies where a backend call failed.
type Kind string

const (
	KindTransport  Kind = "transport"
	KindDecode     Kind = "decode"
	KindHTTP       Kind = "http"
	KindValidation Kind = "validation"
	KindUnknown    Kind = "unknown"
)

const (
	backendDownMessage    = "Internal Server Error - Backend may be down"
	invalidSessionMessage = "Invalid session"
)

// Error is the structured failure of a backend call. Callers branch on Kind,
// Code or errors.Is against the domain sentinels, never on Message.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorField names the request field the backend rejected, if any.
func (e *Error) ErrorField() string {
	return e.Field
}

func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	case domain.ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case domain.ErrInvalidInput:
		return e.Kind == KindValidation
	case domain.ErrBackendUnavailable:
		return e.Kind == KindTransport || e.Status >= http.StatusInternalServerError
	}
	return false
}

// errorBody is the subset of a failed response the client understands.
type errorBody struct {
	Error     json.RawMessage `json:"error"`
	Message   json.RawMessage `json:"message"`
	Code      json.RawMessage `json:"code"`
	ErrorCode string          `json:"error_code"`
	Field     string          `json:"field"`
}

// httpError builds the error for a non-2xx response. The message falls back
// from the body's error, to its message, to a backend-down hint, to the raw
// text, to the bare status.
func httpError(status int, raw []byte) *Error {
	e := &Error{Kind: KindHTTP, Status: status}

	var body errorBody
	parsed := json.Unmarshal(raw, &body) == nil
	if parsed {
		e.Message = firstString(body.Error, body.Message)
		e.Field = body.Field
		e.Code = body.ErrorCode
		if e.Code == "" {
			e.Code = jsonString(body.Code)
		}
	}

	text := strings.TrimSpace(string(raw))
	switch {
	case e.Message != "":
	case strings.Contains(text, "Internal Server Error"):
		e.Message = backendDownMessage
	case text != "":
		e.Message = text
	default:
		e.Message = fmt.Sprintf("HTTP %d", status)
	}

	if e.Code == "" {
		e.Code = statusCode(status)
	}
	if e.Field != "" && (status == http.StatusBadRequest || status == http.StatusUnprocessableEntity) {
		e.Kind = KindValidation
	}
	return e
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Code: "transport", Message: err.Error(), Err: err}
}

func decodeError(status int, err error) *Error {
	return &Error{Kind: KindDecode, Status: status, Code: "decode", Message: "invalid response from server", Err: err}
}

// rejectedError is a 2xx response whose envelope reports success=false.
func rejectedError(status int, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{Kind: KindUnknown, Status: status, Code: "rejected", Message: message}
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}
	if status >= http.StatusInternalServerError {
		return "server_error"
	}
	return string(KindUnknown)
}

func firstString(raws ...json.RawMessage) string {
	for _, raw := range raws {
		if s := jsonString(raw); s != "" {
			return s
		}
	}
	return ""
}

// jsonString returns raw as a string when it encodes a non-empty JSON string.
func jsonString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
