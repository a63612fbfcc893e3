package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30, cfg.Ledger.LookaheadDays)
	assert.Equal(t, 5*time.Second, cfg.Ledger.PersistTimeout)
	assert.Equal(t, config.RepositoryPostgres, cfg.Ledger.Repository)
	assert.Equal(t, "postgres://postgres:@localhost:5432/finboard?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOOKAHEAD_DAYS", "14")
	t.Setenv("PERSIST_TIMEOUT", "250ms")
	t.Setenv("REPOSITORY", "remote")
	t.Setenv("REMOTE_URL", "https://db.example.com/api")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Ledger.LookaheadDays)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.PersistTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "negative lookahead", env: map[string]string{"LOOKAHEAD_DAYS": "-1"}},
		{name: "zero persist timeout", env: map[string]string{"PERSIST_TIMEOUT": "0s"}},
		{name: "zero refresh interval", env: map[string]string{"REFRESH_INTERVAL": "0s"}},
		{name: "unknown repository", env: map[string]string{"REPOSITORY": "sqlite"}},
		{name: "remote without url", env: map[string]string{"REPOSITORY": "remote"}},
		{name: "malformed number", env: map[string]string{"LOOKAHEAD_DAYS": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
