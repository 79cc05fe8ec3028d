package outbound

import "context"

// KeyValueStorePort stores named string slots.
type KeyValueStorePort interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
