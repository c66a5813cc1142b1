package store

import (
	"time"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/repository"
	"bestronggym/gym-desk/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Default slot keys and seed documents.
const (
	ClientsKey      = "clients"
	ClientsSeed     = "clients.json"
	MembershipsKey  = "memberships"
	MembershipsSeed = "memberships.json"
)

// ClientStore is the collection of registered clients.
type ClientStore = Collection[domain.Client]

// NewClientStore creates the client collection. New clients get a generated
// id and a creation time; both survive later merges because payloads
// normally leave them unset.
func NewClientStore(slots repository.SlotRepository, seed storage.SeedSource, log *slog.Logger, key, seedName string, now func() time.Time) *ClientStore {
	if now == nil {
		now = time.Now
	}
	return New(slots, seed, log, Config[domain.Client]{
		Key:      key,
		SeedName: seedName,
		OnCreate: func(c domain.Client) domain.Client {
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			if c.CreatedAt == nil {
				created := now().UTC()
				c.CreatedAt = &created
			}
			return c
		},
	})
}
