// Package metadata implements the durable key-value store the app keeps its
// session keys and persisted state in. It is the on-device analog of a
// mobile platform's async key-value storage.
package metadata

import "context"

// Repository is a durable string-keyed blob store. Get returns (nil, nil)
// for a missing key; deletes of missing keys are no-ops.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	MultiGet(ctx context.Context, keys ...string) (map[string][]byte, error)
	MultiDelete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
