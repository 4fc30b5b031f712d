package model

import "context"

// KeyValueStorage is a persistence slot collaborator. Get returns nil data
// and a nil error when the key is absent.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
