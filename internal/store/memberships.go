package store

import (
	"context"
	"strings"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/repository"
	"bestronggym/gym-desk/internal/storage"

	"golang.org/x/exp/slog"
)

// MembershipStore is the collection of memberships. It keeps at most one
// membership flagged as recommended.
type MembershipStore struct {
	*Collection[domain.Membership]
}

// NewMembershipStore creates the membership collection.
func NewMembershipStore(slots repository.SlotRepository, seed storage.SeedSource, log *slog.Logger, key, seedName string) *MembershipStore {
	return &MembershipStore{
		Collection: New(slots, seed, log, Config[domain.Membership]{
			Key:      key,
			SeedName: seedName,
		}),
	}
}

// SetRecommended flags the first membership matching name and clears the
// flag on every other one. A name that matches nothing clears all flags.
func (s *MembershipStore) SetRecommended(ctx context.Context, name string) ([]domain.Membership, error) {
	key := domain.NormalizeName(name)

	return s.update(ctx, func(records []domain.Membership) ([]domain.Membership, bool, error) {
		return recommend(records, key), true, nil
	})
}

// Upsert stores payload like Collection.Upsert. A payload flagged as
// recommended takes the flag away from every other membership in the same
// write.
func (s *MembershipStore) Upsert(ctx context.Context, payload domain.Membership) ([]domain.Membership, error) {
	if strings.TrimSpace(payload.Name) == "" {
		return nil, ErrNameRequired
	}

	return s.update(ctx, func(records []domain.Membership) ([]domain.Membership, bool, error) {
		records, err := s.merge(records, payload)
		if err != nil {
			return records, false, err
		}
		if payload.IsRecommended() {
			records = recommend(records, domain.NormalizeName(payload.Name))
		}
		return records, true, nil
	})
}

// Recommended returns the recommended membership of the cached collection.
func (s *MembershipStore) Recommended(ctx context.Context) (domain.Membership, bool) {
	for _, m := range s.Load(ctx, false).Records {
		if m.IsRecommended() {
			return m, true
		}
	}
	return domain.Membership{}, false
}

func recommend(records []domain.Membership, key string) []domain.Membership {
	found := false
	for i := range records {
		match := !found && domain.NormalizeName(records[i].Name) == key
		records[i].Recommended = domain.Bool(match)
		found = found || match
	}
	return records
}
