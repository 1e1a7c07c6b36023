package ports

import (
	"context"
	"errors"
	"net/url"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
)

// Credentials travel with each request; the remote client keeps no auth
// state of its own.
type Credentials struct {
	Token string
}

type CredentialsSource interface {
	Credentials() Credentials
}

type RemoteRequest struct {
	Method      string
	Path        string
	Query       url.Values
	Body        any
	Credentials Credentials
}

// RemoteClient performs one JSON request against the admin API and decodes
// a 2xx body into out. out may be nil.
type RemoteClient interface {
	Do(ctx context.Context, req RemoteRequest, out any) error
}

// MessageError is implemented by remote errors that carry a human readable
// message from the server or the transport.
type MessageError interface {
	error
	ServerMessage() string
}

// FieldErrorsError is implemented by validation failures.
type FieldErrorsError interface {
	error
	FieldErrors() domain.FieldErrors
}

func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var messageErr MessageError
	if errors.As(err, &messageErr) {
		if message := messageErr.ServerMessage(); message != "" {
			return message
		}
	}
	return err.Error()
}

func FieldErrorsOf(err error) (domain.FieldErrors, bool) {
	var fieldsErr FieldErrorsError
	if !errors.As(err, &fieldsErr) {
		return nil, false
	}
	fields := fieldsErr.FieldErrors()
	return fields, len(fields) > 0
}
