package kaltura

import (
	"errors"
	"fmt"
	"time"
)

// APIError is an error returned by the Kaltura API itself, as opposed to a
// transport failure. Code carries the vendor error code, for example
// ENTRY_ID_NOT_FOUND or QUERY_EXCEEDED_MAX_MATCHES_ALLOWED.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kaltura api error %s: %s", e.Code, e.Message)
}

// RateLimitError indicates the server rate limited the request.
type RateLimitError struct {
	// StatusCode is the HTTP status code (429 or 503)
	StatusCode int
	// RetryAfter indicates how long to wait before retrying
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (status %d): retry after %v", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited (status %d)", e.StatusCode)
}

// MinDelay reports the server-mandated wait so the retry loop can floor
// its backoff with it.
func (e *RateLimitError) MinDelay() time.Duration {
	return e.RetryAfter
}

// HTTPError indicates a non-2xx HTTP response that carried no parseable
// Kaltura exception body.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// Sentinel errors for session state.
var (
	// ErrNoSession indicates a call was attempted before session.start.
	ErrNoSession = errors.New("no session token: call StartSession first")

	// ErrMaxMatches indicates the server refused a list query because it
	// exceeds the 10,000 match cap. Reporting commands turn this into
	// "use a smaller interval" guidance.
	ErrMaxMatches = errors.New("query exceeded the maximum match limit")
)

// Vendor error codes this client gives special treatment.
const (
	codeMaxMatches = "QUERY_EXCEEDED_MAX_MATCHES_ALLOWED"
)

// transientAPICodes are vendor error codes worth retrying. Everything else
// the API rejects is treated as permanent.
var transientAPICodes = map[string]bool{
	"INTERNAL_DATABASE_ERROR": true,
	"SERVICE_UNAVAILABLE":     true,
}

// IsNotFound reports whether err is a vendor not-found rejection for any
// object kind (entries, categories, assets).
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case "ENTRY_ID_NOT_FOUND", "CATEGORY_NOT_FOUND", "INVALID_OBJECT_ID",
		"FLAVOR_ASSET_ID_NOT_FOUND", "CAPTION_ASSET_ID_NOT_FOUND",
		"USER_ENTRY_NOT_FOUND":
		return true
	}
	return false
}

// IsRetryable determines if an error from the client should be retried.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return transientAPICodes[apiErr.Code]
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}

	if errors.Is(err, ErrNoSession) || errors.Is(err, ErrMaxMatches) {
		return false
	}

	// Rate limits and network errors are retryable
	return true
}
