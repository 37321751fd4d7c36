package api

import (
	"fmt"
	"net/http"

	"github.com/HISPSA/d2/errors"
)

// RequestError is returned for any response outside the 2xx range. It
// carries the HTTP status so callers can match on it, e.g. to downgrade a
// 404 on a single-namespace read into an empty accessor.
type RequestError struct {
	StatusCode int    // HTTP status code, e.g. 404
	Status     string // HTTP status line, e.g. "404 Not Found"
	Message    string // server-supplied message, or raw body when unparseable
	Method     string
	Path       string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a RequestError with a 404 status.
// A missing namespace is a legitimate pre-creation state, so this is the
// one transport failure the datastore layer recovers from.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}

// IsServerError reports whether err is a RequestError with a 5xx status
func IsServerError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode >= 500
}
