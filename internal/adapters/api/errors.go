package api

import (
	"fmt"
	"net/http"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/ports"
)

// TransportError reports a request that never produced an HTTP response:
// dial, DNS, TLS, timeout or context cancellation.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) ServerMessage() string {
	return e.Err.Error()
}

// AuthError is a 401 from the server.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "unauthenticated"
	}
	return e.Message
}

func (e *AuthError) ServerMessage() string {
	return e.Message
}

func (e *AuthError) Is(target error) bool {
	return target == domain.ErrNotAuthenticated
}

// ValidationError is a 422 carrying per-field messages verbatim.
type ValidationError struct {
	Message string
	Fields  domain.FieldErrors
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return e.Message
}

func (e *ValidationError) ServerMessage() string {
	return e.Message
}

func (e *ValidationError) FieldErrors() domain.FieldErrors {
	return e.Fields
}

// ServerError covers every other non-2xx response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d: %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

func (e *ServerError) ServerMessage() string {
	return e.Message
}

// Message returns the server supplied message when there is one and the
// error text otherwise.
func Message(err error) string {
	return ports.ErrorMessage(err)
}

func FieldErrorsOf(err error) (domain.FieldErrors, bool) {
	return ports.FieldErrorsOf(err)
}
