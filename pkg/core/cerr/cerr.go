// Package cerr contains the core errors which carry the HTTP status
// code that should be reported for them. Use cases wrap their failures
// with these constructors and the restful adapters only unwrap them
// with errors.As, so the core layer does not depend on gin.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error wraps Err and tags it with an HTTP status code. Errors which
// are not wrapped by an *Error are reported as internal server errors.
type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func withStatus(code int, err error) *Error {
	return &Error{Err: err, HTTPStatusCode: code}
}

// BadRequest is used for invalid inputs, including the invalid
// status transitions of a listing or inquiry.
func BadRequest(err error) *Error {
	return withStatus(http.StatusBadRequest, err)
}

func Authentication(err error) *Error {
	return withStatus(http.StatusUnauthorized, err)
}

func Authorization(err error) *Error {
	return withStatus(http.StatusForbidden, err)
}

// NotFound is also returned for entities which exist but must stay
// hidden from the caller, e.g., another dealer's draft listing.
func NotFound(err error) *Error {
	return withStatus(http.StatusNotFound, err)
}

func Conflict(err error) *Error {
	return withStatus(http.StatusConflict, err)
}

func TooManyRequests(err error) *Error {
	return withStatus(http.StatusTooManyRequests, err)
}

// IsNotFound reports if err wraps a NotFound *Error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.HTTPStatusCode == http.StatusNotFound
}
