package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches every *AuthError.
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("apiclient: transport failure")
	// ErrBusiness matches every *BusinessError.
	ErrBusiness = errors.New("apiclient: request rejected")
)

// StatusError is a non-success HTTP answer from the back office.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// AuthError is returned when the back office rejected the credential.
// The session has already been logged out; Redirect is the login location
// carrying the page the user was on.
type AuthError struct {
	Redirect string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication required: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == ErrUnauthorized }

// BusinessError is a soft failure: the back office answered but refused.
type BusinessError struct {
	StatusCode int
	Message    string
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request rejected (%d)", e.StatusCode)
	}
	return e.Message
}

func (e *BusinessError) Is(target error) bool { return target == ErrBusiness }

// TransportError covers network failures, 5xx answers and unreadable payloads.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: upstream status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }
