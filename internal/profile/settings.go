package profile

import (
	"fmt"
	"strings"

	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/shopspring/decimal"
)

// SettingsUpdate is a parsed settings message. Nil fields were not mentioned.
type SettingsUpdate struct {
	AccountSize      *decimal.Decimal
	RiskPerTrade     *decimal.Decimal
	PreferredSession *models.Session
}

// SettingsFormat is shown to users as an example.
const SettingsFormat = "account:5000 risk:60 session:all"

// ParseSettings reads whitespace separated key:value tokens, e.g. "account:5000 risk:60 session:all".
// Keys are account, risk and session. Any malformed token, unknown or repeated key, or
// invalid value rejects the whole message.
func ParseSettings(text string) (SettingsUpdate, error) {
	var u SettingsUpdate

	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return u, &models.InvalidRequestError{Field: "settings", Reason: "no settings given, use " + SettingsFormat}
	}

	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		key, value, ok := strings.Cut(tok, ":")
		if !ok || key == "" || value == "" {
			return SettingsUpdate{}, &models.InvalidRequestError{Field: "settings", Reason: fmt.Sprintf("%q is not in key:value form", tok)}
		}
		if seen[key] {
			return SettingsUpdate{}, &models.InvalidRequestError{Field: key, Reason: "given more than once"}
		}
		seen[key] = true

		switch key {
		case "account":
			v, err := parseAmount("account", value)
			if err != nil {
				return SettingsUpdate{}, err
			}
			u.AccountSize = &v
		case "risk":
			v, err := parseAmount("risk", value)
			if err != nil {
				return SettingsUpdate{}, err
			}
			u.RiskPerTrade = &v
		case "session":
			s, err := models.ParseSession(value)
			if err != nil {
				return SettingsUpdate{}, err
			}
			u.PreferredSession = &s
		default:
			return SettingsUpdate{}, &models.InvalidRequestError{Field: key, Reason: "unknown setting (use account, risk or session)"}
		}
	}
	return u, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	value = strings.TrimPrefix(value, "$")
	v, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &models.InvalidRequestError{Field: field, Reason: fmt.Sprintf("%q is not a number", value)}
	}
	if !v.IsPositive() {
		return decimal.Zero, &models.InvalidRequestError{Field: field, Reason: "must be greater than zero"}
	}
	return v, nil
}

// Apply merges the update into p. It never fails once ParseSettings succeeded,
// and is shaped to be passed to Store.Update.
func (u SettingsUpdate) Apply(p *models.RiskProfile) error {
	if u.AccountSize != nil {
		p.AccountSize = *u.AccountSize
	}
	if u.RiskPerTrade != nil {
		p.RiskPerTrade = *u.RiskPerTrade
	}
	if u.PreferredSession != nil {
		p.PreferredSession = *u.PreferredSession
	}
	return nil
}

// IsSettingsText reports whether a free-text message looks like a settings update.
func IsSettingsText(text string) bool {
	return strings.Contains(text, ":")
}
