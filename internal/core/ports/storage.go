package ports

import "context"

// ClientStorage is the per-client key/value store that stands in for browser
// local storage. Set replaces the whole value; Get reports ok=false for a
// missing key.
type ClientStorage interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
