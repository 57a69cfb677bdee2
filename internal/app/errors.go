package app

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrClosed is returned by dashboard operations after Close was called.
var ErrClosed = errors.New("dashboard closed")

// InvalidRequestError is special error type returned when any request params are invalid
type InvalidRequestError string

// Error implements error interface
func (e InvalidRequestError) Error() string {
	return string(e)
}

// IsInvalidRequest tells that this error is 'invalid request'.
// Returns always true.
func (InvalidRequestError) IsInvalidRequest() bool {
	return true
}

// Detail returns message that can be shown to the user.
func (e InvalidRequestError) Detail() string {
	return string(e)
}

// IsInvalidRequestError checks if given error is caused by invalid request
func IsInvalidRequestError(err error) bool {
	type invalidReqErr interface {
		IsInvalidRequest() bool
	}

	var ire invalidReqErr
	if errors.As(err, &ire) {
		return ire.IsInvalidRequest()
	}

	return false
}

// TooManyRequestsError is returned when a call couldn't be made within rate limits.
type TooManyRequestsError string

// Error implements error interface
func (e TooManyRequestsError) Error() string {
	return string(e)
}

// RemoteError is returned when the backend responds with non successful status.
type RemoteError struct {
	StatusCode int
	// Message from the response body, may be empty.
	Message string
}

// Error implements error interface
func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded with status %d: %s", e.StatusCode, e.Message)
}

// Detail returns message that can be shown to the user.
func (e *RemoteError) Detail() string {
	return e.Message
}

// IsNotFoundError checks if the backend reported a missing resource.
func IsNotFoundError(err error) bool {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode == http.StatusNotFound
	}
	return false
}

// ErrorDetail returns user facing message carried by err, or fallback.
func ErrorDetail(err error, fallback string) string {
	type detailer interface {
		Detail() string
	}

	var d detailer
	if errors.As(err, &d) && d.Detail() != "" {
		return d.Detail()
	}
	return fallback
}
