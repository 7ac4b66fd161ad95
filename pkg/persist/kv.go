package persist

import "context"

// KV is the string-keyed blob store edit state is written to. Implementations
// must be safe for concurrent use.
type KV interface {
	// Get returns the blob stored under key. A missing key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
