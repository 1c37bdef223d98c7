package risk

import (
	"errors"
	"testing"

	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr(v decimal.Decimal) *decimal.Decimal {
	return &v
}

func TestSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry string
		stop  string
		risk  string
		units string
	}{
		{"eurusd buy", "1.1360", "1.1310", "60", "12000"},
		{"gbpusd sell", "1.3050", "1.3100", "60", "12000"},
		{"usdjpy sell", "142.50", "143.00", "60", "120"},
		{"zero risk budget", "1.2000", "1.1900", "0", "0"},
		{"wide stop", "0.6410", "0.6380", "100", "33333.3333333333333333"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Size(ptr(d(tt.entry)), ptr(d(tt.stop)), d(tt.risk))
			units := d(tt.units)

			assert.True(t, units.Equal(got.Units), "units = %s, want %s", got.Units, units)
			assert.True(t, got.StandardLots.Equal(got.Units.Div(StandardLotSize)))
			assert.True(t, got.MiniLots.Equal(got.Units.Div(MiniLotSize)))
			assert.True(t, got.MicroLots.Equal(got.Units.Div(MicroLotSize)))
		})
	}
}

func TestSizeDegenerate(t *testing.T) {
	t.Parallel()

	price := d("1.1360")

	for _, risk := range []string{"0", "60", "1000000"} {
		got := Size(ptr(price), ptr(price), d(risk))
		assert.True(t, got.IsZero(), "entry == stop with risk %s", risk)
	}

	assert.True(t, Size(nil, ptr(price), d("60")).IsZero())
	assert.True(t, Size(ptr(price), nil, d("60")).IsZero())
}

func TestSizeMicroLotsExample(t *testing.T) {
	t.Parallel()

	got := Size(ptr(d("1.1360")), ptr(d("1.1310")), d("60"))
	assert.Equal(t, "12000", got.Units.String())
	assert.Equal(t, "12.00", got.MicroLots.StringFixed(2))
	assert.Equal(t, "1.20", got.MiniLots.StringFixed(2))
	assert.Equal(t, "0.12", got.StandardLots.StringFixed(2))
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	m, err := Evaluate(d("1.1360"), d("1.1310"), d("1.1460"), d("60"), d("5000"))
	require.NoError(t, err)

	assert.Equal(t, "2.00", m.RiskRewardRatio.StringFixed(2))
	assert.Equal(t, "120.00", m.PotentialProfit.StringFixed(2))
	assert.Equal(t, "1.20", m.RiskPercentage.StringFixed(2))
}

func TestEvaluateZeroRisk(t *testing.T) {
	t.Parallel()

	for _, target := range []string{"1.1360", "1.2000", "0.9000"} {
		m, err := Evaluate(d("1.1360"), d("1.1360"), d(target), d("60"), d("5000"))
		require.NoError(t, err)
		assert.True(t, m.RiskRewardRatio.IsZero())
		assert.True(t, m.PotentialProfit.IsZero())
		assert.Equal(t, "1.20", m.RiskPercentage.StringFixed(2))
	}
}

func TestEvaluateRejectsAccountSize(t *testing.T) {
	t.Parallel()

	for _, account := range []string{"0", "-100"} {
		_, err := Evaluate(d("1.1360"), d("1.1310"), d("1.1460"), d("60"), d(account))
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidRequest))

		var ire *models.InvalidRequestError
		require.True(t, errors.As(err, &ire))
		assert.Equal(t, "account_size", ire.Field)
	}
}

func TestRiskRewardRatioSell(t *testing.T) {
	t.Parallel()

	rr := RiskRewardRatio(d("0.8950"), d("0.9050"), d("0.8750"))
	assert.Equal(t, "2", rr.String())
}
