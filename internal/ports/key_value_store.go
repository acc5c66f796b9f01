package ports

import "context"

// Contract for the durable store holding the persisted selection.
// A single named entry holds a JSON array of place ids.
type KeyValueStore interface {
	// Return the raw value for key; ok is false when the entry does not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Replace the value for key. The write must be complete when Set returns.
	Set(ctx context.Context, key string, value string) error
}
