package ports

import "context"

// SecretStore is durable key-value storage for session material. Get on a
// missing key returns an error wrapping domain.ErrSecretNotFound.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
