package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vep-annotation-client/internal/domain"
)

func TestNewManagerLoadsDefaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	cfg := manager.GetConfig()
	assert.Equal(t, "https://rest.ensembl.org", cfg.VEP.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.VEP.Timeout)
	assert.Equal(t, float64(15), cfg.VEP.RequestsPerSecond)
	assert.Equal(t, 3, cfg.VEP.MaxRetries)
	assert.Equal(t, 2.0, cfg.VEP.RetryBackoffFactor)

	assert.Equal(t, "redis://localhost:6379", cfg.Cache.RedisURL)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 1000, cfg.Cache.MemorySize)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidateDefaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)
	assert.NoError(t, manager.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Manager)
		wantErr string
	}{
		{
			name:    "missing base url",
			mutate:  func(m *Manager) { m.config.VEP.BaseURL = "" },
			wantErr: "base URL",
		},
		{
			name:    "zero requests per second",
			mutate:  func(m *Manager) { m.config.VEP.RequestsPerSecond = 0 },
			wantErr: "requests_per_second",
		},
		{
			name:    "negative max retries",
			mutate:  func(m *Manager) { m.config.VEP.MaxRetries = -1 },
			wantErr: "max_retries",
		},
		{
			name:    "zero backoff factor",
			mutate:  func(m *Manager) { m.config.VEP.RetryBackoffFactor = 0 },
			wantErr: "retry_backoff_factor",
		},
		{
			name:    "zero cache ttl",
			mutate:  func(m *Manager) { m.config.Cache.TTL = 0 },
			wantErr: "TTL",
		},
		{
			name:    "invalid log level",
			mutate:  func(m *Manager) { m.config.Logging.Level = "verbose" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewManager()
			require.NoError(t, err)

			tt.mutate(manager)
			err = manager.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var vErr *domain.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestGetters(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	assert.Equal(t, &manager.config.VEP, manager.GetVEPConfig())
	assert.Equal(t, &manager.config.Cache, manager.GetCacheConfig())
}
