package profile

import (
	"errors"
	"testing"

	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	u, err := ParseSettings("account:5000 risk:60 session:all")
	require.NoError(t, err)
	require.NotNil(t, u.AccountSize)
	require.NotNil(t, u.RiskPerTrade)
	require.NotNil(t, u.PreferredSession)
	assert.Equal(t, "5000", u.AccountSize.String())
	assert.Equal(t, "60", u.RiskPerTrade.String())
	assert.Equal(t, models.SessionAll, *u.PreferredSession)
}

func TestParseSettingsPartialAndCase(t *testing.T) {
	u, err := ParseSettings("  Risk:$75.5   SESSION:European ")
	require.NoError(t, err)
	assert.Nil(t, u.AccountSize)
	assert.Equal(t, "75.5", u.RiskPerTrade.String())
	assert.Equal(t, models.SessionEuropean, *u.PreferredSession)
}

func TestParseSettingsRejects(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
	}{
		{"empty", "   ", "settings"},
		{"no colon", "account 5000", "settings"},
		{"empty value", "account:", "settings"},
		{"empty key", ":5000", "settings"},
		{"not a number", "account:lots", "account"},
		{"zero risk", "risk:0", "risk"},
		{"negative account", "account:-10", "account"},
		{"bad session", "session:sydney", "session"},
		{"unknown key", "leverage:100", "leverage"},
		{"duplicate", "risk:10 risk:20", "risk"},
		{"late failure", "account:5000 risk:60 session:moon", "session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseSettings(tt.text)
			require.Error(t, err)
			assert.Equal(t, SettingsUpdate{}, u)
			assert.True(t, errors.Is(err, models.ErrInvalidRequest))

			var ire *models.InvalidRequestError
			require.True(t, errors.As(err, &ire))
			assert.Equal(t, tt.field, ire.Field)
		})
	}
}

func TestApply(t *testing.T) {
	p := models.RiskProfile{
		AccountSize:      decimal.NewFromInt(5000),
		RiskPerTrade:     decimal.NewFromInt(60),
		PreferredSession: models.SessionAll,
	}

	u, err := ParseSettings("risk:100")
	require.NoError(t, err)
	require.NoError(t, u.Apply(&p))

	assert.Equal(t, "5000", p.AccountSize.String())
	assert.Equal(t, "100", p.RiskPerTrade.String())
	assert.Equal(t, models.SessionAll, p.PreferredSession)
}

func TestIsSettingsText(t *testing.T) {
	assert.True(t, IsSettingsText("account:100"))
	assert.False(t, IsSettingsText("hello there"))
}
