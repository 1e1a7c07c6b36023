package application

import (
	"context"
	"encoding/json"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/ports"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

// respondJSON decodes body into the out argument the way the remote client
// does for a 2xx response.
func respondJSON(body string) func(context.Context, ports.RemoteRequest, interface{}) error {
	return func(_ context.Context, _ ports.RemoteRequest, out interface{}) error {
		if out == nil {
			return nil
		}
		return json.Unmarshal([]byte(body), out)
	}
}

func requestMatching(method, path string) interface{} {
	return mock.MatchedBy(func(req ports.RemoteRequest) bool {
		return req.Method == method && req.Path == path
	})
}

type remoteMessageError struct {
	message string
	fields  domain.FieldErrors
}

func (e *remoteMessageError) Error() string         { return "remote: " + e.message }
func (e *remoteMessageError) ServerMessage() string { return e.message }
func (e *remoteMessageError) FieldErrors() domain.FieldErrors {
	return e.fields
}

type staticCredentials string

func (c staticCredentials) Credentials() ports.Credentials {
	return ports.Credentials{Token: string(c)}
}
