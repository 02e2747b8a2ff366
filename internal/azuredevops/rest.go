package azuredevops

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	ado "github.com/microsoft/azure-devops-go-api/azuredevops/v7"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

// StatusError describes a non-2xx response. It is attached as the cause of
// the domain error returned to callers.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// statusTransport turns error responses into a *StatusError before the SDK
// sees them, so the status code, headers and body survive for
// classification.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &StatusError{
		Method:     req.Method,
		URL:        redact(req.URL.String()),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       string(raw),
	}
}

// wrapError maps an error returned by the SDK onto the domain error
// taxonomy. Transport failures keep their cause and lose the query string.
func wrapError(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return classify(statusErr)
	}

	var nilArg *ado.ArgumentNilError
	var emptyArg *ado.ArgumentNilOrEmptyError
	if errors.As(err, &nilArg) || errors.As(err, &emptyArg) {
		return NewValidationError(err.Error(), nil).withCause(err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %w", urlErr.Op, redact(urlErr.URL), urlErr.Err)
	}
	return err
}

// classify maps an error response onto the domain error taxonomy.
func classify(statusErr *StatusError) error {
	var decoded any
	message := ""
	if statusErr.Body != "" && json.Unmarshal([]byte(statusErr.Body), &decoded) == nil {
		if m, ok := decoded.(map[string]any); ok {
			message, _ = m["message"].(string)
		}
	}
	if message == "" {
		message = statusErr.Error()
	}

	var de *Error
	switch statusErr.StatusCode {
	case http.StatusBadRequest:
		de = NewValidationError(message, decoded)
	case http.StatusUnauthorized:
		de = NewAuthenticationError(message)
	case http.StatusForbidden:
		de = NewPermissionError(message)
	case http.StatusNotFound:
		de = NewResourceNotFoundError(message)
	case http.StatusTooManyRequests:
		de = NewRateLimitError(message, rateLimitReset(statusErr.Header, time.Now()))
	default:
		de = NewGenericError(message)
	}
	return de.withCause(statusErr)
}

// rateLimitReset reads X-RateLimit-Reset (epoch seconds) or Retry-After
// (seconds or HTTP date) and falls back to now.
func rateLimitReset(h http.Header, now time.Time) time.Time {
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(secs, 0).UTC()
		}
	}
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return now.Add(time.Duration(secs) * time.Second).UTC()
		}
		if t, err := http.ParseTime(v); err == nil {
			return t.UTC()
		}
	}
	return now.UTC()
}

// redact drops the query string, which may carry identifiers from tool
// arguments, from URLs that end up in error messages.
func redact(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

// previewVersion turns "7.1" into "7.1-preview.<rev>" for endpoints that
// have no released version.
func previewVersion(v string, rev int) string {
	if strings.Contains(v, "-preview") {
		return v
	}
	return fmt.Sprintf("%s-preview.%d", v, rev)
}

// convert copies an SDK model into the matching local type. Both carry the
// REST field names, so a JSON round trip maps one onto the other.
func convert[T any](src any) (T, error) {
	var out T
	raw, err := json.Marshal(src)
	if err != nil {
		return out, fmt.Errorf("failed to encode %T: %w", src, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode %T: %w", out, err)
	}
	return out, nil
}

// convertOne is convert for single results.
func convertOne[T any](src any) (*T, error) {
	out, err := convert[T](src)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// convertList is convert for collection results. A nil or empty source
// yields an empty, non-nil slice.
func convertList[T, S any](src *[]S) ([]T, error) {
	if src == nil || len(*src) == 0 {
		return []T{}, nil
	}
	return convert[[]T](*src)
}

func ptr[T any](v T) *T {
	return &v
}

// optional returns nil for the zero value so that unset arguments are not
// sent.
func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
