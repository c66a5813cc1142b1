package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"bestronggym/gym-desk/internal/domain"
	"bestronggym/gym-desk/internal/format"
	"bestronggym/gym-desk/internal/store"

	"golang.org/x/exp/slog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RegisterClientInput is the front-desk registration form. Validity fields
// are optional; when both are zero the plan's duration is used.
type RegisterClientInput struct {
	Name           string
	Plan           string
	Weight         *float64
	Height         *float64
	ValidityMonths int
	ValidityDays   int
	ValidityLabel  string
}

// ClientPatch holds the fields of a partial update. Nil fields are left as
// stored. Changing the plan or the validity renews the payment expiration
// unless PaymentExpiration is given explicitly.
type ClientPatch struct {
	Plan              *string
	Weight            *float64
	Height            *float64
	ValidityMonths    *int
	ValidityDays      *int
	ValidityLabel     *string
	PaymentExpiration *string
}

// ClientStatus is what a client sees after looking themselves up.
type ClientStatus struct {
	Name              string   `json:"name"`
	Plan              string   `json:"plan"`
	PlanPrice         float64  `json:"planPrice"`
	PriceText         string   `json:"priceText"`
	WeightText        string   `json:"weightText"`
	HeightText        string   `json:"heightText"`
	ValidityText      string   `json:"validityText"`
	PaymentExpiration string   `json:"paymentExpiration,omitempty"`
	ExpirationText    string   `json:"expirationText"`
	Active            bool     `json:"active"`
	DaysLeft          int      `json:"daysLeft"`
	BMI               *float64 `json:"bmi,omitempty"`
	BMICategory       string   `json:"bmiCategory,omitempty"`
}

// ClientOrder selects how client lists are sorted.
type ClientOrder string

const (
	// OrderByName sorts by name the way a Spanish reader expects.
	OrderByName ClientOrder = "name"
	// OrderRecent puts the most recently registered clients first. Clients
	// without a creation time go last, by name.
	OrderRecent ClientOrder = "recent"
)

// ParseClientOrder accepts "name", "recent" or an empty string (name).
func ParseClientOrder(value string) (ClientOrder, error) {
	switch ClientOrder(strings.ToLower(strings.TrimSpace(value))) {
	case "", OrderByName:
		return OrderByName, nil
	case OrderRecent:
		return OrderRecent, nil
	default:
		return "", validationError(fmt.Sprintf("unknown sort order %q", value))
	}
}

type ClientService interface {
	ListClients(ctx context.Context, refresh bool, order ClientOrder) store.LoadResult[domain.Client]
	RegisterClient(ctx context.Context, input RegisterClientInput) ([]domain.Client, error)
	UpdateClient(ctx context.Context, name string, patch ClientPatch) ([]domain.Client, error)
	RemoveClient(ctx context.Context, name string) ([]domain.Client, error)
	LookupStatus(ctx context.Context, name string) (*ClientStatus, error)
	// ResetClients drops the stored clients and reloads them from the seed
	// document.
	ResetClients(ctx context.Context) (store.LoadResult[domain.Client], error)
}

type clientService struct {
	clients     *store.ClientStore
	memberships MembershipService
	rule        domain.ExpirationRule
	loc         *time.Location
	now         func() time.Time
	log         *slog.Logger
}

// ClientServiceOption customizes a client service.
type ClientServiceOption func(*clientService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ClientServiceOption {
	return func(s *clientService) { s.now = now }
}

// WithLocation sets the zone that defines "today". Defaults to time.Local.
func WithLocation(loc *time.Location) ClientServiceOption {
	return func(s *clientService) { s.loc = loc }
}

func NewClientService(
	clients *store.ClientStore,
	memberships MembershipService,
	rule domain.ExpirationRule,
	log *slog.Logger,
	opts ...ClientServiceOption,
) ClientService {
	if rule == nil {
		rule = domain.PlanDays{}
	}
	if log == nil {
		log = slog.Default()
	}
	s := &clientService{
		clients:     clients,
		memberships: memberships,
		rule:        rule,
		loc:         time.Local,
		now:         time.Now,
		log:         log.With(slog.String("service", "clients")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListClients returns the clients in the requested order. Name order ignores
// accents and case.
func (s *clientService) ListClients(ctx context.Context, refresh bool, order ClientOrder) store.LoadResult[domain.Client] {
	res := s.clients.Load(ctx, refresh)
	if res.Err != nil {
		s.log.Warn("client list degraded", slog.String("status", res.Status().String()), slog.String("error", res.Err.Error()))
	}
	res.Records = sortByName(res.Records)
	if order == OrderRecent {
		res.Records = sortByRecent(res.Records)
	}
	return res
}

func (s *clientService) ResetClients(ctx context.Context) (store.LoadResult[domain.Client], error) {
	if err := s.clients.Reset(ctx); err != nil {
		return store.LoadResult[domain.Client]{Records: []domain.Client{}}, storeError(err)
	}
	s.log.Info("clients reset")

	res := s.clients.Load(ctx, true)
	res.Records = sortByName(res.Records)
	return res, nil
}

func (s *clientService) RegisterClient(ctx context.Context, input RegisterClientInput) ([]domain.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.Plan) == "" {
		return nil, validationError("name and plan are required")
	}
	if !positive(input.Weight) || !positive(input.Height) {
		return nil, validationError("weight and height must be positive numbers")
	}
	if input.ValidityMonths < 0 || input.ValidityDays < 0 {
		return nil, validationError("validity must not be negative")
	}

	plan, err := s.memberships.ResolvePlan(ctx, input.Plan)
	if err != nil {
		return nil, err
	}

	validity := domain.Validity{
		Months: input.ValidityMonths,
		Days:   input.ValidityDays,
		Label:  strings.TrimSpace(input.ValidityLabel),
	}
	if validity.Months == 0 && validity.Days == 0 {
		validity = planValidity(plan)
	}
	expiration, err := s.expiration(validity)
	if err != nil {
		return nil, err
	}

	records, err := s.clients.Upsert(ctx, domain.Client{
		Name:              name,
		Plan:              plan.Name,
		Weight:            input.Weight,
		Height:            input.Height,
		ValidityMonths:    validity.Months,
		ValidityDays:      validity.Days,
		ValidityLabel:     validity.Label,
		PaymentExpiration: expiration.Format(domain.DateLayout),
	})
	if err != nil {
		return sortByName(records), storeError(err)
	}

	s.log.Info("client registered",
		slog.String("name", name),
		slog.String("plan", plan.Name),
		slog.String("expires", expiration.Format(domain.DateLayout)),
	)
	return sortByName(records), nil
}

func (s *clientService) UpdateClient(ctx context.Context, name string, patch ClientPatch) ([]domain.Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("name is required")
	}
	if patch.Weight != nil && !positive(patch.Weight) {
		return nil, validationError("weight must be a positive number")
	}
	if patch.Height != nil && !positive(patch.Height) {
		return nil, validationError("height must be a positive number")
	}
	if (patch.ValidityMonths != nil && *patch.ValidityMonths < 0) || (patch.ValidityDays != nil && *patch.ValidityDays < 0) {
		return nil, validationError("validity must not be negative")
	}

	current, found, err := s.clients.Find(ctx, name)
	if errors.Is(err, store.ErrSlotUnavailable) {
		return nil, storeError(err)
	}
	if !found {
		return nil, ErrClientNotFound
	}

	payload := domain.Client{
		Name:   current.Name,
		Weight: patch.Weight,
		Height: patch.Height,
	}

	renew := false
	validity := current.Validity()
	if patch.Plan != nil {
		plan, err := s.memberships.ResolvePlan(ctx, *patch.Plan)
		if err != nil {
			return nil, err
		}
		payload.Plan = plan.Name
		validity = planValidity(plan)
		renew = true
	}
	if patch.ValidityMonths != nil {
		validity.Months = *patch.ValidityMonths
		renew = true
	}
	if patch.ValidityDays != nil {
		validity.Days = *patch.ValidityDays
		renew = true
	}
	if patch.ValidityLabel != nil {
		validity.Label = strings.TrimSpace(*patch.ValidityLabel)
	}
	payload.ValidityMonths = validity.Months
	payload.ValidityDays = validity.Days
	payload.ValidityLabel = validity.Label

	switch {
	case patch.PaymentExpiration != nil:
		payload.PaymentExpiration = strings.TrimSpace(*patch.PaymentExpiration)
	case renew:
		expiration, err := s.expiration(validity)
		if err != nil {
			return nil, err
		}
		payload.PaymentExpiration = expiration.Format(domain.DateLayout)
	}

	records, err := s.clients.Upsert(ctx, payload)
	if err != nil {
		return sortByName(records), storeError(err)
	}
	s.log.Info("client updated", slog.String("name", current.Name), slog.Bool("renewed", renew))
	return sortByName(records), nil
}

func (s *clientService) RemoveClient(ctx context.Context, name string) ([]domain.Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("name is required")
	}
	_, found, err := s.clients.Find(ctx, name)
	if errors.Is(err, store.ErrSlotUnavailable) {
		return nil, storeError(err)
	}
	if !found {
		return nil, ErrClientNotFound
	}

	records, err := s.clients.Delete(ctx, name)
	if err != nil {
		return sortByName(records), storeError(err)
	}
	s.log.Info("client removed", slog.String("name", name))
	return sortByName(records), nil
}

func (s *clientService) LookupStatus(ctx context.Context, name string) (*ClientStatus, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationError("name is required")
	}
	client, found, err := s.clients.Find(ctx, name)
	if errors.Is(err, store.ErrSlotUnavailable) {
		return nil, storeError(err)
	}
	if !found {
		return nil, ErrClientNotFound
	}

	price := s.memberships.PlanPrice(ctx, client.Plan)
	status := &ClientStatus{
		Name:              client.Name,
		Plan:              client.Plan,
		PlanPrice:         price,
		PriceText:         format.COP(price),
		WeightText:        format.Weight(client.Weight),
		HeightText:        format.Height(client.Height),
		ValidityText:      format.Validity(client.Validity()),
		PaymentExpiration: client.PaymentExpiration,
		ExpirationText:    format.Expiration(client, s.loc),
	}

	if expires, ok := client.ExpiresOn(s.loc); ok {
		today := domain.StartOfDay(s.now().In(s.loc))
		days := int(math.Round(domain.StartOfDay(expires).Sub(today).Hours() / 24))
		status.Active = days >= 0
		if days > 0 {
			status.DaysLeft = days
		}
	}

	if client.Weight != nil && client.Height != nil {
		if bmi, err := domain.BMI(*client.Height, *client.Weight); err == nil {
			rounded := math.Round(bmi*10) / 10
			status.BMI = &rounded
			status.BMICategory = domain.BMICategory(bmi)
		}
	}
	return status, nil
}

// expiration applies the configured rule. Records that only carry the other
// kind of period (months vs days) fall back to the rule that fits them.
func (s *clientService) expiration(v domain.Validity) (time.Time, error) {
	today := s.now().In(s.loc)
	exp, err := s.rule.Expiration(today, v)
	if err == nil {
		return exp, nil
	}
	if !errors.Is(err, domain.ErrInvalidValidity) {
		return time.Time{}, err
	}
	for _, rule := range []domain.ExpirationRule{domain.PlanDays{}, domain.CalendarMonths{}} {
		if exp, err := rule.Expiration(today, v); err == nil {
			return exp, nil
		}
	}
	return time.Time{}, validationError("a positive validity period is required")
}

func planValidity(p domain.Plan) domain.Validity {
	v := domain.Validity{Days: p.DurationDays, Label: p.DurationLabel}
	if v.Label == "" {
		v.Label = format.Validity(domain.Validity{Days: p.DurationDays})
	}
	return v
}

func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 0)
}

// sortByRecent expects records already in name order; ties and clients
// without a creation time keep it.
func sortByRecent(records []domain.Client) []domain.Client {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].CreatedAt, records[j].CreatedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	return records
}

func sortByName(records []domain.Client) []domain.Client {
	col := collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(records, func(i, j int) bool {
		return col.CompareString(strings.TrimSpace(records[i].Name), strings.TrimSpace(records[j].Name)) < 0
	})
	return records
}
