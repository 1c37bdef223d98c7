package config

import (
	"testing"

	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DEFAULT_ACCOUNT_SIZE", "DEFAULT_RISK_PER_TRADE", "DEFAULT_SESSION",
		"RECOMMENDATION_COUNT", "REQUEST_TIMEOUT", "REQUESTS_PER_SEC", "UPDATE_WORKERS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3, cfg.RecommendationCount)
	assert.Equal(t, 90, cfg.RequestTimeout)

	p := cfg.DefaultProfile()
	assert.Equal(t, "5000", p.AccountSize.String())
	assert.Equal(t, "60", p.RiskPerTrade.String())
	assert.Equal(t, models.SessionAll, p.PreferredSession)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("DEFAULT_ACCOUNT_SIZE", "25000")
	t.Setenv("DEFAULT_RISK_PER_TRADE", "250.50")
	t.Setenv("DEFAULT_SESSION", "US")
	t.Setenv("RECOMMENDATION_COUNT", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.ConnectionParams().Driver)
	assert.Equal(t, "/tmp/x.db", cfg.ConnectionParams().Path)
	assert.Equal(t, 4, cfg.RecommendationCount)

	p := cfg.DefaultProfile()
	assert.Equal(t, "25000", p.AccountSize.String())
	assert.Equal(t, "250.5", p.RiskPerTrade.String())
	assert.Equal(t, models.SessionUS, p.PreferredSession)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad driver", "DB_DRIVER", "mongo"},
		{"postgres without host", "DB_DRIVER", "postgres"},
		{"zero account", "DEFAULT_ACCOUNT_SIZE", "0"},
		{"not a decimal", "DEFAULT_RISK_PER_TRADE", "sixty"},
		{"bad session", "DEFAULT_SESSION", "sydney"},
		{"zero count", "RECOMMENDATION_COUNT", "0"},
		{"zero workers", "UPDATE_WORKERS", "0"},
		{"count not an integer", "RECOMMENDATION_COUNT", "abc"},
		{"timeout not an integer", "REQUEST_TIMEOUT", "90s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_HOST", "")
			t.Setenv("DB_NAME", "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
