package azuredevops

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind identifies the category of a domain error.
type Kind string

// Error kinds. The set is closed; Format and IsDomainError rely on it.
const (
	KindAuthentication   Kind = "Authentication"
	KindValidation       Kind = "Validation"
	KindResourceNotFound Kind = "ResourceNotFound"
	KindPermission       Kind = "Permission"
	KindRateLimit        Kind = "RateLimit"
	KindGeneric          Kind = "Generic"
)

const unknownErrorMessage = "Unknown error"

// Error is the single tagged error type used across the server.
// Response is only meaningful for KindValidation and ResetAt only for KindRateLimit.
type Error struct {
	Kind     Kind
	Message  string
	Response any
	ResetAt  time.Time
	Cause    error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return unknownErrorMessage
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewAuthenticationError reports a credential or handshake failure.
func NewAuthenticationError(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// NewValidationError reports malformed configuration or arguments.
// response may be nil.
func NewValidationError(message string, response any) *Error {
	return &Error{Kind: KindValidation, Message: message, Response: response}
}

// NewResourceNotFoundError reports a missing backend resource.
func NewResourceNotFoundError(message string) *Error {
	return &Error{Kind: KindResourceNotFound, Message: message}
}

// NewPermissionError reports that the credential lacks access.
func NewPermissionError(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

// NewRateLimitError reports throttling by the backend.
func NewRateLimitError(message string, resetAt time.Time) *Error {
	return &Error{Kind: KindRateLimit, Message: message, ResetAt: resetAt}
}

// NewGenericError is the catch-all kind.
func NewGenericError(message string) *Error {
	return &Error{Kind: KindGeneric, Message: message}
}

// withCause attaches the underlying error without changing the message.
func (e *Error) withCause(cause error) *Error {
	e.Cause = cause
	return e
}

// IsDomainError reports whether err is, or wraps, an *Error.
func IsDomainError(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

// AsDomainError returns the *Error in err's chain, if any.
func AsDomainError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	de, ok := AsDomainError(err)
	return ok && de.Kind == kind
}

// Format renders any value as the single-line (or multi-line, for
// validation and rate limit errors) text returned to tool callers.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case *Error:
		if x == nil {
			return "null"
		}
		return formatDomain(x)
	case map[string]any:
		name, _ := x["name"].(string)
		message, _ := x["message"].(string)
		return prefixed(name, message)
	case error:
		if de, ok := AsDomainError(x); ok {
			return formatDomain(de)
		}
		return prefixed("Error", x.Error())
	default:
		return prefixed("", "")
	}
}

func formatDomain(e *Error) string {
	out := prefixed(string(e.Kind), e.Message)
	switch e.Kind {
	case KindValidation:
		if e.Response != nil {
			out += "\nResponse: " + marshalResponse(e.Response)
		}
	case KindRateLimit:
		out += "\nReset at: " + e.ResetAt.UTC().Format(isoMillis)
	}
	return out
}

// isoMillis matches the ISO-8601 form with millisecond precision and a Z suffix.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func prefixed(name, message string) string {
	if name == "" {
		name = "Unknown"
	}
	if message == "" {
		message = unknownErrorMessage
	}
	return name + ": " + message
}

func marshalResponse(v any) string {
	switch r := v.(type) {
	case json.RawMessage:
		return string(r)
	case []byte:
		return string(r)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// ErrorMessage returns err's message, or "Unknown error" when there is nothing to show.
func ErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return unknownErrorMessage
	}
	return err.Error()
}
