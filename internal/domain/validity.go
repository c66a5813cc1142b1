package domain

import (
	"errors"
	"fmt"
	"time"
)

// Names of the expiration rules accepted in configuration.
const (
	RuleCalendarMonths = "calendar_months"
	RulePlanDays       = "plan_days"
)

var (
	ErrInvalidValidity = errors.New("validity period must be positive")
	ErrUnknownRule     = errors.New("unknown expiration rule")
)

// Validity is the paid period of a client. Older records carry Months,
// newer ones carry Days plus a display Label.
type Validity struct {
	Months int
	Days   int
	Label  string
}

// ExpirationRule derives the payment expiration date from a validity period.
type ExpirationRule interface {
	Name() string
	Expiration(from time.Time, v Validity) (time.Time, error)
}

// CalendarMonths adds calendar months to local midnight of the start day.
// Month overflow normalizes the way time.AddDate does (Jan 31 + 1 month is
// early March).
type CalendarMonths struct{}

func (CalendarMonths) Name() string { return RuleCalendarMonths }

func (CalendarMonths) Expiration(from time.Time, v Validity) (time.Time, error) {
	if v.Months <= 0 {
		return time.Time{}, ErrInvalidValidity
	}
	return StartOfDay(from).AddDate(0, v.Months, 0), nil
}

// PlanDays adds a fixed number of days to local midnight of the start day.
type PlanDays struct{}

func (PlanDays) Name() string { return RulePlanDays }

func (PlanDays) Expiration(from time.Time, v Validity) (time.Time, error) {
	if v.Days <= 0 {
		return time.Time{}, ErrInvalidValidity
	}
	return StartOfDay(from).AddDate(0, 0, v.Days), nil
}

// RuleByName resolves a configured rule name.
func RuleByName(name string) (ExpirationRule, error) {
	switch name {
	case RuleCalendarMonths:
		return CalendarMonths{}, nil
	case RulePlanDays, "":
		return PlanDays{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
