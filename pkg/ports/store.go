package ports

import "context"

// DocumentStore persists named fields per user. One user maps to one
// document; fields merge on write, so setting a field never disturbs its
// siblings. Implementations must be safe for concurrent use.
type DocumentStore interface {
	// SetField upserts a single field in the user's document.
	SetField(ctx context.Context, userID, key, value string) error

	// GetField reads a single field from the user's document.
	// Returns domain.ErrFieldNotFound when the field (or the whole
	// document) is absent.
	GetField(ctx context.Context, userID, key string) (string, error)

	// Fields returns every field of the user's document. An absent
	// document yields an empty map, not an error.
	Fields(ctx context.Context, userID string) (map[string]string, error)

	// DeleteField removes a single field. Deleting an absent field is a
	// no-op.
	DeleteField(ctx context.Context, userID, key string) error
}
