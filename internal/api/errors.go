package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrUnauthorized covers 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers 409 responses.
	ErrConflict = errors.New("conflict")
	// ErrBadRequest covers 400 responses.
	ErrBadRequest = errors.New("bad request")
	// ErrServer covers every other non-2xx response.
	ErrServer = errors.New("server error")
	// ErrEmptyResponse is returned when a 2xx response lacks a required body.
	ErrEmptyResponse = errors.New("empty response body")
)

// StatusError describes a non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Unwrap maps the status code onto the package sentinels.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		return ErrServer
	}
}

// NetworkError wraps transport failures (timeouts, unreachable hosts).
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Kind is the user-facing failure class of an error.
type Kind int

const (
	KindNone Kind = iota
	// KindNetwork: timeout or unreachable host; the user may retry.
	KindNetwork
	// KindAuth: 401/403; fall back or send the user to login.
	KindAuth
	// KindValidation: client-side field checks failed; nothing was sent.
	KindValidation
	// KindServer: any other failure, surfaced as-is.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	default:
		return "server"
	}
}

// validationFailure is implemented by client-side validation errors.
type validationFailure interface {
	ValidationFailure() bool
}

// Classify maps err onto the failure taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var vf validationFailure
	if errors.As(err, &vf) && vf.ValidationFailure() {
		return KindValidation
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return KindNetwork
	}
	if errors.Is(err, ErrUnauthorized) {
		return KindAuth
	}
	return KindServer
}
