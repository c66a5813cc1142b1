package repository

import "context"

// Error constants for repository layer
var (
	ErrNotFound   = RepositoryError("not found")
	ErrKeyEmpty   = RepositoryError("slot key cannot be empty")
	ErrSaveFailed = RepositoryError("save failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// SlotRepository is a key-value store of named slots, each holding one
// serialized document (the JSON array of a whole collection).
type SlotRepository interface {
	// Get returns ErrNotFound when the slot has never been written.
	Get(ctx context.Context, key string) (string, error)
	// Set overwrites the slot.
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
