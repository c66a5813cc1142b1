package memory

import (
	"context"
	"sync"

	"bestronggym/gym-desk/internal/repository"
)

// SlotRepository is an in-memory repository.SlotRepository.
// It is safe for concurrent use.
type SlotRepository struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewSlotRepository constructs an empty in-memory slot repository.
func NewSlotRepository() *SlotRepository {
	return &SlotRepository{
		slots: make(map[string]string),
	}
}

func (r *SlotRepository) Get(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", repository.ErrKeyEmpty
	}

	r.mu.RLock()
	val, ok := r.slots[key]
	r.mu.RUnlock()

	if !ok {
		return "", repository.ErrNotFound
	}
	return val, nil
}

func (r *SlotRepository) Set(_ context.Context, key, value string) error {
	if key == "" {
		return repository.ErrKeyEmpty
	}

	r.mu.Lock()
	r.slots[key] = value
	r.mu.Unlock()

	return nil
}

func (r *SlotRepository) Delete(_ context.Context, key string) error {
	if key == "" {
		return repository.ErrKeyEmpty
	}

	r.mu.Lock()
	_, ok := r.slots[key]
	if ok {
		delete(r.slots, key)
	}
	r.mu.Unlock()

	if !ok {
		return repository.ErrNotFound
	}
	return nil
}
