// Package store keeps whole record collections in key-value slots.
//
// Each collection lives in one slot as a JSON array. A slot that was never
// written is filled once from a read-only seed document. Records are
// identified by their trimmed, lowercased name and every mutation is a
// read-modify-write of the whole array, so the last writer wins.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/repository"
	"bestronggym/gym-desk/internal/storage"

	"golang.org/x/exp/slog"
)

const nameField = "name"

var (
	// ErrNameRequired is returned by Upsert for a payload without a name.
	ErrNameRequired = errors.New("record name is required")
	// ErrCorruptSlot marks a slot that did not hold a JSON array. The slot
	// is reset to an empty array when this happens.
	ErrCorruptSlot = errors.New("slot does not hold a JSON array")
	// ErrCorruptSeed marks a seed document that is not a JSON array.
	ErrCorruptSeed = errors.New("seed does not hold a JSON array")
	// ErrSlotUnavailable marks a failed slot read. Mutations refuse to run
	// on top of it so a transient outage cannot wipe the stored collection.
	ErrSlotUnavailable = errors.New("slot unavailable")
)

// Record is implemented by every type kept in a Collection. Records must
// serialize their name under the JSON key "name".
type Record interface {
	RecordName() string
}

// Config describes one collection.
type Config[T Record] struct {
	// Key is the slot holding the collection.
	Key string
	// SeedName is the seed document read when the slot is absent.
	SeedName string
	// OnCreate, when set, stamps records appended by Upsert.
	OnCreate func(T) T
}

// Collection is the record store of one record type.
type Collection[T Record] struct {
	mu       sync.Mutex
	slots    repository.SlotRepository
	seed     storage.SeedSource
	key      string
	seedName string
	onCreate func(T) T
	log      *slog.Logger

	cache  LoadResult[T]
	cached bool
}

// New creates a collection over slots. A nil seed means the collection has
// no seed document and starts empty.
func New[T Record](slots repository.SlotRepository, seed storage.SeedSource, log *slog.Logger, cfg Config[T]) *Collection[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Collection[T]{
		slots:    slots,
		seed:     seed,
		key:      cfg.Key,
		seedName: cfg.SeedName,
		onCreate: cfg.OnCreate,
		log:      log.With(slog.String("collection", cfg.Key)),
	}
}

// Load returns the collection. The cached snapshot is returned unless
// refresh is set or nothing has been loaded yet.
func (c *Collection[T]) Load(ctx context.Context, refresh bool) LoadResult[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load(ctx, refresh)
}

// Save replaces the collection with records.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.save(ctx, records)
}

// Find returns the first record whose normalized name matches name, using
// a refreshed load. The returned error is the load degradation, if any.
func (c *Collection[T]) Find(ctx context.Context, name string) (T, bool, error) {
	res := c.Load(ctx, true)
	key := domain.NormalizeName(name)
	if i := indexOf(res.Records, key); i >= 0 {
		return res.Records[i], true, res.Err
	}
	var zero T
	return zero, false, res.Err
}

// Upsert inserts payload or merges it into the record with the same
// normalized name. Fields present in payload win; the stored name keeps
// its original casing. It returns the resulting collection.
func (c *Collection[T]) Upsert(ctx context.Context, payload T) ([]T, error) {
	if strings.TrimSpace(payload.RecordName()) == "" {
		return nil, ErrNameRequired
	}

	return c.update(ctx, func(records []T) ([]T, bool, error) {
		records, err := c.merge(records, payload)
		return records, err == nil, err
	})
}

// merge applies payload to records in memory. payload must carry a name.
func (c *Collection[T]) merge(records []T, payload T) ([]T, error) {
	name := strings.TrimSpace(payload.RecordName())
	key := domain.NormalizeName(name)

	if i := indexOf(records, key); i >= 0 {
		merged, err := overlay(records[i], payload, records[i].RecordName())
		if err != nil {
			return records, fmt.Errorf("merge %q: %w", name, err)
		}
		records[i] = merged
		return records, nil
	}

	var zero T
	created, err := overlay(zero, payload, name)
	if err != nil {
		return records, fmt.Errorf("build %q: %w", name, err)
	}
	if c.onCreate != nil {
		created = c.onCreate(created)
	}
	return append(records, created), nil
}

// Delete removes every record whose normalized name matches name. The slot
// is only written when something was removed.
func (c *Collection[T]) Delete(ctx context.Context, name string) ([]T, error) {
	key := domain.NormalizeName(name)

	return c.update(ctx, func(records []T) ([]T, bool, error) {
		kept := make([]T, 0, len(records))
		for _, r := range records {
			if domain.NormalizeName(r.RecordName()) != key {
				kept = append(kept, r)
			}
		}
		return kept, len(kept) != len(records), nil
	})
}

// Reset deletes the slot and forgets the cached snapshot, so the next load
// starts over from the seed document.
func (c *Collection[T]) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cached = false
	c.cache = LoadResult[T]{}
	if err := c.slots.Delete(ctx, c.key); err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.log.Error("failed to delete slot", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	}
	c.log.Info("slot reset")
	return nil
}

// update runs one read-modify-write cycle against a refreshed load. fn
// reports whether it changed anything worth saving.
func (c *Collection[T]) update(ctx context.Context, fn func([]T) ([]T, bool, error)) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.load(ctx, true)
	if errors.Is(res.Err, ErrSlotUnavailable) {
		return res.Records, res.Err
	}

	records, changed, err := fn(res.Records)
	if err != nil {
		return clone(res.Records), err
	}
	if changed {
		if err := c.save(ctx, records); err != nil {
			return clone(records), err
		}
	}
	return clone(records), nil
}

func (c *Collection[T]) load(ctx context.Context, refresh bool) LoadResult[T] {
	if c.cached && !refresh {
		res := c.cache
		res.Records = clone(res.Records)
		res.Source = SourceCache
		return res
	}

	res := c.read(ctx)
	c.cache = res
	c.cache.Records = clone(res.Records)
	c.cached = true
	return res
}

func (c *Collection[T]) read(ctx context.Context) LoadResult[T] {
	raw, err := c.slots.Get(ctx, c.key)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.log.Error("failed to read slot", slog.String("error", err.Error()))
		return LoadResult[T]{Records: []T{}, Source: SourceSlot, Err: fmt.Errorf("%w: %v", ErrSlotUnavailable, err)}
	}

	if err == nil && strings.TrimSpace(raw) != "" {
		records, skipped, decodeErr := decode[T]([]byte(raw))
		if decodeErr != nil {
			c.log.Warn("slot holds an unreadable collection, resetting it", slog.String("error", decodeErr.Error()))
			if werr := c.write(ctx, []T{}); werr != nil {
				c.log.Error("failed to reset slot", slog.String("error", werr.Error()))
			}
			return LoadResult[T]{Records: []T{}, Source: SourceSlot, Err: fmt.Errorf("%w: %v", ErrCorruptSlot, decodeErr)}
		}
		if skipped > 0 {
			c.log.Warn("slot holds unreadable records, skipping them", slog.Int("skipped", skipped), slog.Int("records", len(records)))
		}
		return LoadResult[T]{Records: records, Source: SourceSlot}
	}

	return c.readSeed(ctx)
}

// readSeed handles a first run. A seed that was read successfully is written
// into the slot; a failed seed leaves the slot absent so a later refresh can
// try again.
func (c *Collection[T]) readSeed(ctx context.Context) LoadResult[T] {
	if c.seed == nil || c.seedName == "" {
		if err := c.write(ctx, []T{}); err != nil {
			c.log.Error("failed to initialize slot", slog.String("error", err.Error()))
		}
		return LoadResult[T]{Records: []T{}, Source: SourceNone}
	}

	data, err := c.seed.Fetch(ctx, c.seedName)
	if err != nil {
		c.log.Error("failed to fetch seed", slog.String("seed", c.seedName), slog.String("error", err.Error()))
		return LoadResult[T]{Records: []T{}, Source: SourceSeed, Err: fmt.Errorf("fetch seed %s: %w", c.seedName, err)}
	}

	records, skipped, err := decode[T](data)
	if err != nil {
		c.log.Error("seed is not a JSON array", slog.String("seed", c.seedName), slog.String("error", err.Error()))
		return LoadResult[T]{Records: []T{}, Source: SourceSeed, Err: fmt.Errorf("%w: %v", ErrCorruptSeed, err)}
	}
	if skipped > 0 {
		c.log.Warn("seed holds unreadable records, skipping them", slog.String("seed", c.seedName), slog.Int("skipped", skipped))
	}

	if err := c.write(ctx, records); err != nil {
		c.log.Warn("failed to persist seeded collection", slog.String("error", err.Error()))
	}
	c.log.Info("collection seeded", slog.String("seed", c.seedName), slog.Int("records", len(records)))
	return LoadResult[T]{Records: records, Source: SourceSeed}
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	c.cache = LoadResult[T]{Records: clone(records), Source: SourceSlot}
	c.cached = true

	if err := c.write(ctx, records); err != nil {
		c.log.Error("failed to save collection", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", repository.ErrSaveFailed, err)
	}
	return nil
}

func (c *Collection[T]) write(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.slots.Set(ctx, c.key, string(raw))
}

// decode parses a JSON array of records. Anything else, including null, is
// rejected. Elements that do not decode as a record are skipped and counted
// so one bad entry cannot cost the rest of the collection.
func decode[T Record](data []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, 0, errors.New("not a JSON array")
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, 0, err
	}

	records := make([]T, 0, len(elements))
	skipped := 0
	for _, raw := range elements {
		var r T
		if err := json.Unmarshal(raw, &r); err != nil {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}

func indexOf[T Record](records []T, key string) int {
	for i, r := range records {
		if domain.NormalizeName(r.RecordName()) == key {
			return i
		}
	}
	return -1
}

func clone[T any](records []T) []T {
	out := make([]T, len(records))
	copy(out, records)
	return out
}
