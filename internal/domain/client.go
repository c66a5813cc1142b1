package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used for stored payment expiration dates.
const DateLayout = "2006-01-02"

// Client represents a gym member registered at the front desk.
// The name is the identity key; see NormalizeName.
type Client struct {
	ID                string     `json:"id,omitempty"` // generated on first insert, kept on merges
	Name              string     `json:"name"`
	Plan              string     `json:"plan,omitempty"`
	Weight            *float64   `json:"weight,omitempty"` // kg
	Height            *float64   `json:"height,omitempty"` // cm
	ValidityMonths    int        `json:"validityMonths,omitempty"`
	ValidityDays      int        `json:"validityDays,omitempty"`
	ValidityLabel     string     `json:"validityLabel,omitempty"`
	PaymentExpiration string     `json:"paymentExpiration,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}

// UnmarshalJSON reads both current and older client records. Older records
// store createdAt as epoch milliseconds and the paid months as a "validity"
// string or number; both are folded into the current fields. An unreadable
// createdAt is dropped rather than failing the record.
func (c *Client) UnmarshalJSON(data []byte) error {
	type plain Client
	var aux struct {
		plain
		CreatedAt json.RawMessage `json:"createdAt"`
		Validity  json.RawMessage `json:"validity"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*c = Client(aux.plain)
	c.CreatedAt = parseCreatedAt(aux.CreatedAt)
	if c.ValidityMonths == 0 {
		c.ValidityMonths = legacyMonths(aux.Validity)
	}
	return nil
}

func parseCreatedAt(raw json.RawMessage) *time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	value := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil
		}
		value = strings.TrimSpace(value)
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return &t
		}
	}

	ms, err := strconv.ParseFloat(value, 64)
	if err != nil || ms <= 0 {
		return nil
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t
}

func legacyMonths(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	value := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &value); err != nil {
			return 0
		}
	}
	months, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || months < 1 {
		return 0
	}
	return int(months)
}

// RecordName returns the identity name of the client.
func (c Client) RecordName() string {
	return c.Name
}

// Validity collects the validity fields of the client.
func (c Client) Validity() Validity {
	return Validity{
		Months: c.ValidityMonths,
		Days:   c.ValidityDays,
		Label:  c.ValidityLabel,
	}
}

// ExpiresOn parses PaymentExpiration. Both plain dates and full RFC 3339
// timestamps are accepted, since older records stored the latter.
func (c Client) ExpiresOn(loc *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(c.PaymentExpiration)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// NormalizeName trims and lowercases a name so lookups ignore case and
// surrounding whitespace.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Float is a small helper for building optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
