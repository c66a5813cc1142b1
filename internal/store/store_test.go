package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/repository"
	"bestronggym/gym-desk/internal/repository/memory"
	"bestronggym/gym-desk/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const anaSeed = `[{"name":"Ana Ruiz","plan":"Esencial"}]`

type seedFunc func(ctx context.Context, name string) ([]byte, error)

func (f seedFunc) Fetch(ctx context.Context, name string) ([]byte, error) {
	return f(ctx, name)
}

func staticSeed(body string) storage.SeedSource {
	return seedFunc(func(context.Context, string) ([]byte, error) {
		return []byte(body), nil
	})
}

func offlineSeed() storage.SeedSource {
	return seedFunc(func(context.Context, string) ([]byte, error) {
		return nil, storage.ErrSeedUnavailable
	})
}

// countingSlots records how many writes reach the backend.
type countingSlots struct {
	*memory.SlotRepository
	sets int
}

func (s *countingSlots) Set(ctx context.Context, key, value string) error {
	s.sets++
	return s.SlotRepository.Set(ctx, key, value)
}

// failingSlots fails writes once fail is set.
type failingSlots struct {
	*memory.SlotRepository
	fail bool
	sets int
}

func (s *failingSlots) Set(ctx context.Context, key, value string) error {
	s.sets++
	if s.fail {
		return errors.New("disk full")
	}
	return s.SlotRepository.Set(ctx, key, value)
}

// brokenSlots fails every read.
type brokenSlots struct {
	*memory.SlotRepository
	sets int
}

func (s *brokenSlots) Get(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}

func (s *brokenSlots) Set(ctx context.Context, key, value string) error {
	s.sets++
	return s.SlotRepository.Set(ctx, key, value)
}

var fixedNow = func() time.Time { return time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC) }

func newClients(slots repository.SlotRepository, seed storage.SeedSource) *ClientStore {
	return NewClientStore(slots, seed, slog.Default(), ClientsKey, ClientsSeed, fixedNow)
}

func TestLoad_SeedsEmptySlot(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()

	res := newClients(slots, staticSeed(anaSeed)).Load(ctx, false)
	require.NoError(t, res.Err)
	assert.Equal(t, SourceSeed, res.Source)
	assert.Equal(t, StatusOK, res.Status())
	assert.Equal(t, []domain.Client{{Name: "Ana Ruiz", Plan: "Esencial"}}, res.Records)

	// A later process reads the seeded slot without reaching the seed.
	again := newClients(slots, offlineSeed()).Load(ctx, false)
	require.NoError(t, again.Err)
	assert.Equal(t, SourceSlot, again.Source)
	assert.Equal(t, res.Records, again.Records)
}

func TestLoad_SeedFailureDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()

	res := newClients(slots, offlineSeed()).Load(ctx, false)
	assert.Empty(t, res.Records)
	assert.Equal(t, StatusFailed, res.Status())
	assert.ErrorIs(t, res.Err, storage.ErrSeedUnavailable)

	_, err := slots.Get(ctx, ClientsKey)
	assert.ErrorIs(t, err, repository.ErrNotFound, "failed seed must leave the slot absent")
}

func TestLoad_MalformedSeed(t *testing.T) {
	res := newClients(memory.NewSlotRepository(), staticSeed(`{"name":"Ana"}`)).Load(context.Background(), false)
	assert.Empty(t, res.Records)
	assert.ErrorIs(t, res.Err, ErrCorruptSeed)
}

func TestLoad_WithoutSeedStartsEmpty(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()

	res := newClients(slots, nil).Load(ctx, false)
	require.NoError(t, res.Err)
	assert.Equal(t, StatusEmpty, res.Status())
	assert.Equal(t, SourceNone, res.Source)

	raw, err := slots.Get(ctx, ClientsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestLoad_CorruptSlotIsReset(t *testing.T) {
	for _, raw := range []string{`{"name":"Ana"}`, `null`, `not json`, `[{"name":"Ana"}`} {
		t.Run(raw, func(t *testing.T) {
			ctx := context.Background()
			slots := memory.NewSlotRepository()
			require.NoError(t, slots.Set(ctx, ClientsKey, raw))

			res := newClients(slots, staticSeed(anaSeed)).Load(ctx, false)
			assert.Empty(t, res.Records)
			assert.ErrorIs(t, res.Err, ErrCorruptSlot)

			stored, err := slots.Get(ctx, ClientsKey)
			require.NoError(t, err)
			assert.Equal(t, "[]", stored)
		})
	}
}

func TestLoad_LegacyClientSlot(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	legacy := `[{"name":"Ana Ruiz","plan":"Esencial","validity":"3","createdAt":1741132800000},{"name":"Luis","plan":"Elite"}]`
	require.NoError(t, slots.Set(ctx, ClientsKey, legacy))

	res := newClients(slots, nil).Load(ctx, false)
	require.NoError(t, res.Err)
	assert.Equal(t, SourceSlot, res.Source)
	require.Len(t, res.Records, 2)

	ana := res.Records[0]
	assert.Equal(t, "Ana Ruiz", ana.Name)
	assert.Equal(t, 3, ana.ValidityMonths)
	require.NotNil(t, ana.CreatedAt)
	assert.True(t, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC).Equal(*ana.CreatedAt))
	assert.Equal(t, "Luis", res.Records[1].Name)

	stored, err := slots.Get(ctx, ClientsKey)
	require.NoError(t, err)
	assert.Equal(t, legacy, stored, "a readable slot is never rewritten by a load")
}

func TestLoad_SkipsUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	raw := `[1,{"name":"Luis","plan":"Elite"},"Ana",{"name":["x"]}]`
	require.NoError(t, slots.Set(ctx, ClientsKey, raw))

	res := newClients(slots, nil).Load(ctx, false)
	require.NoError(t, res.Err)
	assert.Equal(t, []domain.Client{{Name: "Luis", Plan: "Elite"}}, res.Records)

	stored, err := slots.Get(ctx, ClientsKey)
	require.NoError(t, err)
	assert.Equal(t, raw, stored)
}

func TestLoad_UsesCacheUntilRefresh(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	require.NoError(t, slots.Set(ctx, ClientsKey, anaSeed))
	clients := newClients(slots, nil)

	first := clients.Load(ctx, false)
	require.Len(t, first.Records, 1)

	require.NoError(t, slots.Set(ctx, ClientsKey, `[]`))

	cached := clients.Load(ctx, false)
	assert.Equal(t, SourceCache, cached.Source)
	assert.Len(t, cached.Records, 1)

	fresh := clients.Load(ctx, true)
	assert.Equal(t, SourceSlot, fresh.Source)
	assert.Empty(t, fresh.Records)
}

func TestLoad_CacheIsNotAliased(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	require.NoError(t, slots.Set(ctx, ClientsKey, anaSeed))
	clients := newClients(slots, nil)

	res := clients.Load(ctx, false)
	res.Records[0].Plan = "Elite"

	assert.Equal(t, "Esencial", clients.Load(ctx, false).Records[0].Plan)
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	clients := newClients(memory.NewSlotRepository(), nil)
	created := fixedNow()
	records := []domain.Client{
		{ID: "c-1", Name: "Ana Ruiz", Plan: "Esencial", Weight: domain.Float(60), ValidityMonths: 1, PaymentExpiration: "2026-04-05", CreatedAt: &created},
		{Name: "Luis Pérez", Plan: "Elite", Height: domain.Float(180), ValidityDays: 28, ValidityLabel: "4 semanas / 1 mes"},
	}

	require.NoError(t, clients.Save(ctx, records))

	res := clients.Load(ctx, true)
	require.NoError(t, res.Err)
	assert.Equal(t, records, res.Records)
}

func TestUpsert_MergesBySeededName(t *testing.T) {
	ctx := context.Background()
	clients := newClients(memory.NewSlotRepository(), staticSeed(anaSeed))
	require.Len(t, clients.Load(ctx, false).Records, 1)

	got, err := clients.Upsert(ctx, domain.Client{Name: " ana RUIZ ", Weight: domain.Float(60)})
	require.NoError(t, err)

	assert.Equal(t, []domain.Client{{Name: "Ana Ruiz", Plan: "Esencial", Weight: domain.Float(60)}}, got)
}

func TestUpsert_NewNameAppends(t *testing.T) {
	ctx := context.Background()
	clients := newClients(memory.NewSlotRepository(), staticSeed(anaSeed))

	got, err := clients.Upsert(ctx, domain.Client{Name: "  Luis Pérez ", Plan: "Elite"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	matches := 0
	for _, c := range got {
		if domain.NormalizeName(c.Name) == "luis pérez" {
			matches++
			assert.Equal(t, "Luis Pérez", c.Name)
			assert.NotEmpty(t, c.ID)
			require.NotNil(t, c.CreatedAt)
			assert.True(t, fixedNow().Equal(*c.CreatedAt))
		}
	}
	assert.Equal(t, 1, matches)
}

func TestUpsert_PartialPayloadPreservesFields(t *testing.T) {
	ctx := context.Background()
	clients := newClients(memory.NewSlotRepository(), nil)

	first, err := clients.Upsert(ctx, domain.Client{Name: "Marta Gómez", Plan: "Avanzado", Height: domain.Float(165), ValidityDays: 14})
	require.NoError(t, err)
	require.Len(t, first, 1)
	id, created := first[0].ID, first[0].CreatedAt

	got, err := clients.Upsert(ctx, domain.Client{Name: "MARTA GÓMEZ", Plan: "Elite", Weight: domain.Float(58.5)})
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, "Marta Gómez", c.Name)
	assert.Equal(t, "Elite", c.Plan)
	assert.Equal(t, 58.5, *c.Weight)
	assert.Equal(t, 165.0, *c.Height)
	assert.Equal(t, 14, c.ValidityDays)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, created, c.CreatedAt)
}

func TestUpsert_RequiresName(t *testing.T) {
	_, err := newClients(memory.NewSlotRepository(), nil).Upsert(context.Background(), domain.Client{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUpsert_RefusesToOverwriteUnreadableSlot(t *testing.T) {
	slots := &brokenSlots{SlotRepository: memory.NewSlotRepository()}
	clients := newClients(slots, nil)

	_, err := clients.Upsert(context.Background(), domain.Client{Name: "Ana Ruiz"})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Zero(t, slots.sets)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	slots := &countingSlots{SlotRepository: memory.NewSlotRepository()}
	require.NoError(t, slots.SlotRepository.Set(ctx, ClientsKey, `[{"name":"Ana Ruiz"},{"name":"Luis Pérez"}]`))
	clients := newClients(slots, nil)

	got, err := clients.Delete(ctx, "Nadie")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Zero(t, slots.sets, "nothing removed, nothing written")

	got, err = clients.Delete(ctx, "  ANA ruiz")
	require.NoError(t, err)
	assert.Equal(t, []domain.Client{{Name: "Luis Pérez"}}, got)
	assert.Equal(t, 1, slots.sets)

	assert.Len(t, clients.Load(ctx, true).Records, 1)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	clients := newClients(memory.NewSlotRepository(), staticSeed(anaSeed))

	c, ok, err := clients.Find(ctx, "ANA RUIZ ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Esencial", c.Plan)

	_, ok, err = clients.Find(ctx, "Luis")
	require.NoError(t, err)
	assert.False(t, ok)
}

func newMemberships(t *testing.T) *MembershipStore {
	t.Helper()
	return newMembershipsOver(t, memory.NewSlotRepository())
}

func newMembershipsOver(t *testing.T, slots repository.SlotRepository) *MembershipStore {
	t.Helper()
	seed := `[
		{"name":"Esencial","durationDays":7,"price":45000},
		{"name":"Avanzado","durationDays":14,"price":65000,"recommended":true},
		{"name":"Elite","durationDays":28,"price":90000}
	]`
	return NewMembershipStore(slots, staticSeed(seed), slog.Default(), MembershipsKey, MembershipsSeed)
}

func recommendedNames(ms []domain.Membership) []string {
	var names []string
	for _, m := range ms {
		if m.IsRecommended() {
			names = append(names, m.Name)
		}
	}
	return names
}

func TestSetRecommended(t *testing.T) {
	ctx := context.Background()
	memberships := newMemberships(t)

	got, err := memberships.SetRecommended(ctx, " elite")
	require.NoError(t, err)
	assert.Equal(t, []string{"Elite"}, recommendedNames(got))

	rec, ok := memberships.Recommended(ctx)
	require.True(t, ok)
	assert.Equal(t, "Elite", rec.Name)

	got, err = memberships.SetRecommended(ctx, "Platino")
	require.NoError(t, err)
	assert.Empty(t, recommendedNames(got))
	assert.Len(t, got, 3)
}

func TestMembershipUpsert_KeepsSingleRecommended(t *testing.T) {
	ctx := context.Background()
	memberships := newMemberships(t)

	got, err := memberships.Upsert(ctx, domain.Membership{Name: "Platino", DurationDays: 30, Price: domain.Float(120000), Recommended: domain.Bool(true)})
	require.NoError(t, err)
	assert.Len(t, got, 4)
	assert.Equal(t, []string{"Platino"}, recommendedNames(got))

	got, err = memberships.Upsert(ctx, domain.Membership{Name: "esencial", Price: domain.Float(50000)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Platino"}, recommendedNames(got))
	for _, m := range got {
		if m.Name == "Esencial" {
			assert.Equal(t, 50000.0, m.PriceValue())
			assert.Equal(t, 7, m.DurationDays)
		}
	}
}

func findMembership(t *testing.T, ms []domain.Membership, name string) domain.Membership {
	t.Helper()
	for _, m := range ms {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("membership %q not found", name)
	return domain.Membership{}
}

func TestMembershipUpsert_AppliesExplicitFalseAndZero(t *testing.T) {
	ctx := context.Background()
	memberships := newMemberships(t)

	got, err := memberships.Upsert(ctx, domain.Membership{Name: "Avanzado", Recommended: domain.Bool(false)})
	require.NoError(t, err)
	avanzado := findMembership(t, got, "Avanzado")
	assert.False(t, avanzado.IsRecommended())
	assert.Equal(t, 65000.0, avanzado.PriceValue(), "fields left out keep their stored value")
	assert.Empty(t, recommendedNames(got))

	got, err = memberships.Upsert(ctx, domain.Membership{Name: "Avanzado", Price: domain.Float(0)})
	require.NoError(t, err)
	avanzado = findMembership(t, got, "Avanzado")
	require.NotNil(t, avanzado.Price)
	assert.Zero(t, *avanzado.Price)
	assert.Equal(t, 14, avanzado.DurationDays)
}

func TestMembershipUpsert_RecommendsInOneWrite(t *testing.T) {
	ctx := context.Background()
	slots := &failingSlots{SlotRepository: memory.NewSlotRepository()}
	memberships := newMembershipsOver(t, slots)
	require.Len(t, memberships.Load(ctx, false).Records, 3)
	seeded := slots.sets

	_, err := memberships.Upsert(ctx, domain.Membership{Name: "Elite", Recommended: domain.Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, seeded+1, slots.sets)

	slots.fail = true
	_, err = memberships.Upsert(ctx, domain.Membership{Name: "Platino", DurationDays: 30, Recommended: domain.Bool(true)})
	assert.ErrorIs(t, err, repository.ErrSaveFailed)

	slots.fail = false
	res := memberships.Load(ctx, true)
	require.NoError(t, res.Err)
	assert.Len(t, res.Records, 3)
	assert.Equal(t, []string{"Elite"}, recommendedNames(res.Records))
}

func TestUpsert_ConcurrentWritersAreSerialized(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	clients := newClients(slots, nil)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := clients.Upsert(ctx, domain.Client{Name: fmt.Sprintf("Cliente %02d", i), Plan: "Esencial"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	res := newClients(slots, nil).Load(ctx, false)
	require.NoError(t, res.Err)
	assert.Len(t, res.Records, writers)
}

func TestReset_ReseedsOnNextLoad(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSlotRepository()
	clients := newClients(slots, staticSeed(anaSeed))

	_, err := clients.Upsert(ctx, domain.Client{Name: "Luis Pérez", Plan: "Elite"})
	require.NoError(t, err)
	require.Len(t, clients.Load(ctx, false).Records, 2)

	require.NoError(t, clients.Reset(ctx))
	_, err = slots.Get(ctx, ClientsKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	res := clients.Load(ctx, false)
	require.NoError(t, res.Err)
	assert.Equal(t, SourceSeed, res.Source)
	assert.Equal(t, []domain.Client{{Name: "Ana Ruiz", Plan: "Esencial"}}, res.Records)

	require.NoError(t, clients.Reset(ctx), "resetting an absent slot is fine")
}
