package format

import (
	"testing"
	"time"

	"bestronggym/gym-desk/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCOP(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{45000, "$ 45.000"},
		{65000, "$ 65.000"},
		{90000.4, "$ 90.000"},
		{1249999.5, "$ 1.250.000"},
		{0, "$ 0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, COP(tt.amount))
	}
}

func TestMonths(t *testing.T) {
	assert.Equal(t, "1 mes", Months(1))
	assert.Equal(t, "3 meses", Months(3))
}

func TestValidity(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Validity
		want string
	}{
		{"label wins", domain.Validity{Days: 28, Label: "4 semanas / 1 mes"}, "4 semanas / 1 mes"},
		{"one week", domain.Validity{Days: 7}, "1 semana"},
		{"two weeks", domain.Validity{Days: 14}, "2 semanas"},
		{"one day", domain.Validity{Days: 1}, "1 dia"},
		{"ten days", domain.Validity{Days: 10}, "10 dias"},
		{"one month", domain.Validity{Months: 1}, "1 mes"},
		{"three months", domain.Validity{Months: 3}, "3 meses"},
		{"nothing", domain.Validity{}, "Sin vigencia"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validity(tt.in))
		})
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "05 de marzo de 2026", Date(time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 de diciembre de 2026", Date(time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Sin fecha", Date(time.Time{}))
}

func TestExpiration(t *testing.T) {
	assert.Equal(t, "01 de mayo de 2026", Expiration(domain.Client{PaymentExpiration: "2026-05-01"}, time.UTC))
	assert.Equal(t, "Sin fecha", Expiration(domain.Client{}, time.UTC))
}

func TestWeightAndHeight(t *testing.T) {
	assert.Equal(t, "60.0 kg", Weight(domain.Float(60)))
	assert.Equal(t, "72.5 kg", Weight(domain.Float(72.46)))
	assert.Equal(t, "Sin registrar", Weight(nil))
	assert.Equal(t, "Sin registrar", Weight(domain.Float(0)))
	assert.Equal(t, "175 cm", Height(domain.Float(174.6)))
	assert.Equal(t, "Sin registrar", Height(domain.Float(-3)))
}
