package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"bestronggym/gym-desk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, SlotsSQLite, cfg.Slots.Driver)
	assert.Equal(t, "clients", cfg.Slots.ClientsKey)
	assert.Equal(t, "memberships", cfg.Slots.MembershipsKey)
	assert.Equal(t, SeedFile, cfg.Seed.Driver)
	assert.Equal(t, 8*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "staff", cfg.Staff.Username)
	assert.Equal(t, domain.RulePlanDays, cfg.Billing.ExpirationRule)
	assert.Equal(t, domain.DefaultPlans(), cfg.Billing.Plans)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":7070"
slots:
  driver: memory
seed:
  driver: http
  base_url: "http://localhost:5173/data"
billing:
  expiration_rule: calendar_months
  plans:
    - name: Mensual
      price: 120000
      days: 30
      label: "1 mes"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("STAFF_PASSWORD", "recepcion2026")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, SlotsMemory, cfg.Slots.Driver)
	assert.Equal(t, "http://localhost:5173/data", cfg.Seed.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, "recepcion2026", cfg.Staff.Password)
	assert.Equal(t, domain.RuleCalendarMonths, cfg.Billing.ExpirationRule)
	assert.Equal(t, []domain.Plan{{Name: "Mensual", Price: 120000, DurationDays: 30, DurationLabel: "1 mes"}}, cfg.Billing.Plans)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown slots driver", map[string]string{"SLOTS_DRIVER": "redis"}},
		{"unknown seed driver", map[string]string{"SEED_DRIVER": "ftp"}},
		{"http seed without url", map[string]string{"SEED_DRIVER": "http"}},
		{"unknown rule", map[string]string{"BILLING_EXPIRATION_RULE": "fortnights"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(t.TempDir())
			assert.Error(t, err)
		})
	}
}
