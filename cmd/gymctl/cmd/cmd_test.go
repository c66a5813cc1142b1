package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"bestronggym/gym-desk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SLOTS_DRIVER", "sqlite")
	t.Setenv("SLOTS_SQLITE_PATH", filepath.Join(dir, "gym.db"))
	t.Setenv("SEED_DRIVER", "none")
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config-dir", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestClientsCommands(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, dir, "clients", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No clients")

	_, err = run(t, dir, "clients", "add", "Ana Ruiz", "--plan", "Esencial", "--weight", "70", "--height", "175")
	require.NoError(t, err)
	_, err = run(t, dir, "clients", "add", "Beto", "--plan", "Elite", "--weight", "80", "--height", "180")
	require.NoError(t, err)

	out, err = run(t, dir, "--json", "clients", "list")
	require.NoError(t, err)
	var clients []domain.Client
	require.NoError(t, json.Unmarshal([]byte(out), &clients))
	require.Len(t, clients, 2)
	assert.Equal(t, "Ana Ruiz", clients[0].Name)
	assert.Equal(t, "1 semana", clients[0].ValidityLabel)

	out, err = run(t, dir, "clients", "show", "ana ruiz")
	require.NoError(t, err)
	assert.Contains(t, out, "Esencial ($ 45.000)")
	assert.Contains(t, out, "70.0 kg")
	assert.Contains(t, out, "activo")

	_, err = run(t, dir, "clients", "add", "Sin Plan", "--weight", "70", "--height", "175")
	assert.Error(t, err)

	_, err = run(t, dir, "clients", "rm", "BETO")
	require.NoError(t, err)
	_, err = run(t, dir, "clients", "rm", "Beto")
	assert.Error(t, err)

	out, err = run(t, dir, "clients", "list", "--sort", "recent")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Ruiz")
	assert.NotContains(t, out, "Beto")

	_, err = run(t, dir, "clients", "list", "--sort", "plan")
	assert.Error(t, err)

	out, err = run(t, dir, "clients", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "No clients")
}

func TestMembershipsCommands(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, dir, "memberships", "add", "Esencial", "--days", "7", "--price", "45000", "--recommended")
	require.NoError(t, err)
	_, err = run(t, dir, "memberships", "add", "Elite", "--days", "28", "--price", "90000")
	require.NoError(t, err)

	out, err := run(t, dir, "memberships", "recommend", "elite")
	require.NoError(t, err)
	assert.Contains(t, out, "$ 90.000")

	out, err = run(t, dir, "--json", "memberships", "list")
	require.NoError(t, err)
	var memberships []domain.Membership
	require.NoError(t, json.Unmarshal([]byte(out), &memberships))
	require.Len(t, memberships, 2)
	assert.False(t, memberships[0].IsRecommended())
	assert.True(t, memberships[1].IsRecommended())

	out, err = run(t, dir, "memberships", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Recommended: Elite ($ 90.000)")

	// An update without --price keeps the stored price.
	out, err = run(t, dir, "--json", "memberships", "add", "elite", "--days", "28", "--recommended=false")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &memberships))
	assert.False(t, memberships[1].IsRecommended())
	assert.Equal(t, 90000.0, memberships[1].PriceValue())

	_, err = run(t, dir, "memberships", "rm", "Esencial")
	require.NoError(t, err)

	out, err = run(t, dir, "memberships", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Esencial")
	assert.Contains(t, out, "4 semanas")
}
