package domain

// Membership is a purchasable plan shown to clients. At most one membership
// in the collection carries Recommended.
//
// Price and Recommended are pointers so that a partial update can tell an
// explicit 0 or false apart from a field it left out.
type Membership struct {
	Name         string   `json:"name"`
	DurationDays int      `json:"durationDays,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Recommended  *bool    `json:"recommended,omitempty"`
}

// RecordName returns the identity name of the membership.
func (m Membership) RecordName() string {
	return m.Name
}

// PriceValue returns the price, or 0 when none is stored.
func (m Membership) PriceValue() float64 {
	if m.Price == nil {
		return 0
	}
	return *m.Price
}

// IsRecommended reports whether the membership carries the recommended flag.
func (m Membership) IsRecommended() bool {
	return m.Recommended != nil && *m.Recommended
}

// Plan converts the membership into the plan used for registrations.
func (m Membership) Plan() Plan {
	return Plan{
		Name:         m.Name,
		Price:        m.PriceValue(),
		DurationDays: m.DurationDays,
	}
}

// Bool is a small helper for building optional flags.
func Bool(v bool) *bool {
	return &v
}
