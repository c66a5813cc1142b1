package storage

import (
	"context"
	"errors"
)

// maxSeedSize caps how much of a seed document is read.
const maxSeedSize = 8 << 20

var (
	// ErrSeedUnavailable is returned when the source could not serve the
	// document.
	ErrSeedUnavailable = errors.New("seed resource unavailable")
	// ErrSeedNotFound is returned when the source has no such document.
	ErrSeedNotFound = errors.New("seed resource not found")
)

// SeedSource serves the static JSON documents used to seed an empty slot.
// Seeds are read-only; nothing is ever written back.
type SeedSource interface {
	// Fetch returns the raw document stored under name (e.g. "clients.json").
	Fetch(ctx context.Context, name string) ([]byte, error)
}
