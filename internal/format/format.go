// Package format renders record fields the way the front desk shows them.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"bestronggym/gym-desk/internal/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	notRecorded = "Sin registrar"
	noDate      = "Sin fecha"
	noValidity  = "Sin vigencia"
)

// Colombian pesos share the peninsular Spanish separators.
var pesoPrinter = message.NewPrinter(language.Spanish)

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// COP formats an amount in Colombian pesos, rounded to whole pesos.
func COP(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-$ " + pesoPrinter.Sprintf("%d", -rounded)
	}
	return "$ " + pesoPrinter.Sprintf("%d", rounded)
}

// Validity renders a validity period. A stored label wins; day counts that
// are whole weeks render as weeks.
func Validity(v domain.Validity) string {
	if label := strings.TrimSpace(v.Label); label != "" {
		return label
	}
	switch {
	case v.Days > 0 && v.Days%7 == 0:
		return Count(v.Days/7, "semana", "semanas")
	case v.Days > 0:
		return Count(v.Days, "dia", "dias")
	case v.Months > 0:
		return Months(v.Months)
	default:
		return noValidity
	}
}

// Months renders "1 mes" or "N meses".
func Months(n int) string {
	return Count(n, "mes", "meses")
}

// Count pluralizes unit on whether n is exactly one.
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// Date renders a long Spanish date such as "05 de marzo de 2026".
func Date(t time.Time) string {
	if t.IsZero() {
		return noDate
	}
	return fmt.Sprintf("%02d de %s de %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// Expiration renders the payment expiration of c in loc.
func Expiration(c domain.Client, loc *time.Location) string {
	t, ok := c.ExpiresOn(loc)
	if !ok {
		return noDate
	}
	return Date(t)
}

// Weight renders kilograms with one decimal.
func Weight(kg *float64) string {
	if kg == nil || *kg <= 0 || math.IsInf(*kg, 0) || math.IsNaN(*kg) {
		return notRecorded
	}
	return fmt.Sprintf("%.1f kg", *kg)
}

// Height renders whole centimeters.
func Height(cm *float64) string {
	if cm == nil || *cm <= 0 || math.IsInf(*cm, 0) || math.IsNaN(*cm) {
		return notRecorded
	}
	return fmt.Sprintf("%.0f cm", *cm)
}
