package domain

// Plan is an entry of the plan catalog used when registering clients.
type Plan struct {
	Name          string  `mapstructure:"name" json:"name"`
	Price         float64 `mapstructure:"price" json:"price"`
	DurationDays  int     `mapstructure:"days" json:"durationDays"`
	DurationLabel string  `mapstructure:"label" json:"durationLabel,omitempty"`
}

// DefaultPlans is the catalog used when none is configured.
func DefaultPlans() []Plan {
	return []Plan{
		{Name: "Esencial", Price: 45000, DurationDays: 7, DurationLabel: "1 semana"},
		{Name: "Avanzado", Price: 65000, DurationDays: 14, DurationLabel: "2 semanas"},
		{Name: "Elite", Price: 90000, DurationDays: 28, DurationLabel: "4 semanas / 1 mes"},
	}
}

// FindPlan looks a plan up by normalized name.
func FindPlan(plans []Plan, name string) (Plan, bool) {
	key := NormalizeName(name)
	for _, p := range plans {
		if NormalizeName(p.Name) == key {
			return p, true
		}
	}
	return Plan{}, false
}
