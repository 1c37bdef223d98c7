package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecommendSwing(t *testing.T) {
	out, err := execute(t, "--style", "swing", "--count", "2", "--account", "10000", "--risk", "100")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "Swing Trade Opportunity"))
	assert.Contains(t, out, "*BUY EURUSD*")
	assert.Contains(t, out, "*Risk:* $100.00 (1.00%)")
	assert.Contains(t, out, "provided you with 2 swing trade opportunities")
	assert.Less(t, strings.Index(out, "EURUSD"), strings.Index(out, "USDCAD"))
}

func TestRecommendRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"style", []string{"--style", "scalp"}, "style"},
		{"account", []string{"--account", "lots"}, "account_size"},
		{"zero risk", []string{"--risk", "0"}, "risk_per_trade"},
		{"count", []string{"--count", "0"}, "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)

			var ire *models.InvalidRequestError
			require.True(t, errors.As(err, &ire))
			assert.Equal(t, tt.field, ire.Field)
		})
	}
}
