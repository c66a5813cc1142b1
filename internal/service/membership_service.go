package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/store"

	"golang.org/x/exp/slog"
)

// MembershipInput is a membership as submitted by staff. Nil Price and
// Recommended keep the stored values of an existing membership.
type MembershipInput struct {
	Name         string
	DurationDays int
	Price        *float64
	Recommended  *bool
}

type MembershipService interface {
	ListMemberships(ctx context.Context, refresh bool) store.LoadResult[domain.Membership]
	SaveMembership(ctx context.Context, input MembershipInput) ([]domain.Membership, error)
	RemoveMembership(ctx context.Context, name string) ([]domain.Membership, error)
	Recommend(ctx context.Context, name string) ([]domain.Membership, error)
	// RecommendedMembership is the plan card highlighted for visitors.
	RecommendedMembership(ctx context.Context) (domain.Membership, bool)
	// ResetMemberships drops the stored memberships and reloads them from
	// the seed document.
	ResetMemberships(ctx context.Context) (store.LoadResult[domain.Membership], error)

	// ResolvePlan finds a plan among the memberships first and the configured
	// catalog second.
	ResolvePlan(ctx context.Context, name string) (domain.Plan, error)
	// PlanPrice is the price of a plan, or 0 when the plan is unknown.
	PlanPrice(ctx context.Context, name string) float64
}

type membershipService struct {
	memberships *store.MembershipStore
	catalog     []domain.Plan
	log         *slog.Logger
}

func NewMembershipService(memberships *store.MembershipStore, catalog []domain.Plan, log *slog.Logger) MembershipService {
	if log == nil {
		log = slog.Default()
	}
	return &membershipService{
		memberships: memberships,
		catalog:     catalog,
		log:         log.With(slog.String("service", "memberships")),
	}
}

func (s *membershipService) ListMemberships(ctx context.Context, refresh bool) store.LoadResult[domain.Membership] {
	res := s.memberships.Load(ctx, refresh)
	if res.Err != nil {
		s.log.Warn("membership list degraded", slog.String("status", res.Status().String()), slog.String("error", res.Err.Error()))
	}
	return res
}

func (s *membershipService) SaveMembership(ctx context.Context, input MembershipInput) ([]domain.Membership, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("membership name is required")
	}
	if input.DurationDays < 0 {
		return nil, validationError("duration must not be negative")
	}
	if p := input.Price; p != nil && (*p < 0 || math.IsNaN(*p) || math.IsInf(*p, 0)) {
		return nil, validationError("price must be a non-negative number")
	}

	records, err := s.memberships.Upsert(ctx, domain.Membership{
		Name:         name,
		DurationDays: input.DurationDays,
		Price:        input.Price,
		Recommended:  input.Recommended,
	})
	if err != nil {
		return records, storeError(err)
	}
	s.log.Info("membership saved", slog.String("name", name), slog.Bool("recommended", input.Recommended != nil && *input.Recommended))
	return records, nil
}

func (s *membershipService) RemoveMembership(ctx context.Context, name string) ([]domain.Membership, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("membership name is required")
	}
	_, found, err := s.memberships.Find(ctx, name)
	if errors.Is(err, store.ErrSlotUnavailable) {
		return nil, storeError(err)
	}
	if !found {
		return nil, ErrMembershipNotFound
	}

	records, err := s.memberships.Delete(ctx, name)
	if err != nil {
		return records, storeError(err)
	}
	s.log.Info("membership removed", slog.String("name", name))
	return records, nil
}

// Recommend moves the recommended flag to name. An empty name clears it.
func (s *membershipService) Recommend(ctx context.Context, name string) ([]domain.Membership, error) {
	records, err := s.memberships.SetRecommended(ctx, name)
	if err != nil {
		return records, storeError(err)
	}
	return records, nil
}

func (s *membershipService) RecommendedMembership(ctx context.Context) (domain.Membership, bool) {
	return s.memberships.Recommended(ctx)
}

func (s *membershipService) ResetMemberships(ctx context.Context) (store.LoadResult[domain.Membership], error) {
	if err := s.memberships.Reset(ctx); err != nil {
		return store.LoadResult[domain.Membership]{Records: []domain.Membership{}}, storeError(err)
	}
	s.log.Info("memberships reset")
	return s.memberships.Load(ctx, true), nil
}

func (s *membershipService) ResolvePlan(ctx context.Context, name string) (domain.Plan, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Plan{}, validationError("plan is required")
	}
	for _, m := range s.memberships.Load(ctx, false).Records {
		if domain.NormalizeName(m.Name) == domain.NormalizeName(name) && m.DurationDays > 0 {
			return m.Plan(), nil
		}
	}
	if p, ok := domain.FindPlan(s.catalog, name); ok {
		return p, nil
	}
	return domain.Plan{}, ErrUnknownPlan
}

func (s *membershipService) PlanPrice(ctx context.Context, name string) float64 {
	p, err := s.ResolvePlan(ctx, name)
	if err != nil {
		return 0
	}
	return p.Price
}
