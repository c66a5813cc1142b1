package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UnmarshalCreatedAt(t *testing.T) {
	created := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{"epoch millis", `{"name":"Ana","createdAt":1741132800000}`, &created},
		{"rfc 3339", `{"name":"Ana","createdAt":"2025-03-05T00:00:00Z"}`, &created},
		{"millis as text", `{"name":"Ana","createdAt":"1741132800000"}`, &created},
		{"missing", `{"name":"Ana"}`, nil},
		{"null", `{"name":"Ana","createdAt":null}`, nil},
		{"garbage", `{"name":"Ana","createdAt":"ayer"}`, nil},
		{"wrong type", `{"name":"Ana","createdAt":true}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Client
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			assert.Equal(t, "Ana", c.Name)
			if tt.want == nil {
				assert.Nil(t, c.CreatedAt)
				return
			}
			require.NotNil(t, c.CreatedAt)
			assert.True(t, tt.want.Equal(*c.CreatedAt), "got %v", c.CreatedAt)
		})
	}
}

func TestClient_UnmarshalLegacyValidity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"name":"Ana","validity":"3"}`, 3},
		{`{"name":"Ana","validity":" 1 "}`, 1},
		{`{"name":"Ana","validity":6}`, 6},
		{`{"name":"Ana","validity":"3","validityMonths":2}`, 2},
		{`{"name":"Ana","validity":""}`, 0},
		{`{"name":"Ana","validity":"mensual"}`, 0},
		{`{"name":"Ana","validity":"0"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c Client
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			assert.Equal(t, tt.want, c.ValidityMonths)
		})
	}
}

func TestClient_LegacyRecordRoundTrip(t *testing.T) {
	raw := `{"name":"Ana Ruiz","plan":"Esencial","weight":60,"height":165,"validity":"3",` +
		`"paymentExpiration":"2025-06-05","createdAt":1741132800000}`

	var c Client
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	out, err := json.Marshal(c)
	require.NoError(t, err)

	var again Client
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, c, again)
	assert.Equal(t, 3, again.ValidityMonths)
	assert.Equal(t, 60.0, *again.Weight)
}
