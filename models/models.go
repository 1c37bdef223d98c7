package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Style is the trade horizon a candidate set is built for.
type Style string

const (
	StyleDay   Style = "DAY"
	StyleSwing Style = "SWING"
)

// Styles lists every supported style in display order.
var Styles = []Style{StyleDay, StyleSwing}

// ParseStyle accepts "day", "DAY", "swing", "Swing"...
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToUpper(strings.TrimSpace(s))) {
	case StyleDay:
		return StyleDay, nil
	case StyleSwing:
		return StyleSwing, nil
	}
	return "", &InvalidRequestError{Field: "style", Reason: fmt.Sprintf("unknown trade style %q (use day or swing)", s)}
}

// Title is the human name used in report headers.
func (s Style) Title() string {
	switch s {
	case StyleDay:
		return "Day Trade"
	case StyleSwing:
		return "Swing Trade"
	}
	return string(s)
}

// Direction of the trade
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// RiskProfile holds a user's sizing parameters. The engine only reads it.
type RiskProfile struct {
	AccountSize      decimal.Decimal `json:"account_size"`
	RiskPerTrade     decimal.Decimal `json:"risk_per_trade"`
	PreferredSession Session         `json:"preferred_session"`
}

// UserProfile is the stored record keyed by Telegram user id.
type UserProfile struct {
	UserID    int64       `json:"user_id"`
	ChatID    int64       `json:"chat_id"`
	Profile   RiskProfile `json:"profile"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Candidate is a catalog entry: a trade setup before it is sized for a user.
type Candidate struct {
	Symbol       string          `json:"symbol"`
	Style        Style           `json:"style"`
	Direction    Direction       `json:"direction"`
	Entry        decimal.Decimal `json:"entry"`
	StopLoss     decimal.Decimal `json:"stop_loss"`
	TakeProfit   decimal.Decimal `json:"take_profit"`
	Signals      []string        `json:"signals"`
	QualityScore int             `json:"quality_score"`
}

// Validate checks that risk and reward are both strictly positive for the direction.
func (c Candidate) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("candidate without symbol")
	}
	if !c.Entry.IsPositive() || !c.StopLoss.IsPositive() || !c.TakeProfit.IsPositive() {
		return fmt.Errorf("%s: prices must be positive", c.Symbol)
	}
	if len(c.Signals) == 0 {
		return fmt.Errorf("%s: at least one signal is required", c.Symbol)
	}
	switch c.Direction {
	case DirectionBuy:
		if !(c.StopLoss.LessThan(c.Entry) && c.Entry.LessThan(c.TakeProfit)) {
			return fmt.Errorf("%s: BUY requires stop < entry < target", c.Symbol)
		}
	case DirectionSell:
		if !(c.TakeProfit.LessThan(c.Entry) && c.Entry.LessThan(c.StopLoss)) {
			return fmt.Errorf("%s: SELL requires target < entry < stop", c.Symbol)
		}
	default:
		return fmt.Errorf("%s: unknown direction %q", c.Symbol, c.Direction)
	}
	return nil
}

// PositionSize in units and conventional lot tiers. The zero value means
// "no sizing possible" (missing prices or zero stop distance).
type PositionSize struct {
	Units        decimal.Decimal `json:"units"`
	StandardLots decimal.Decimal `json:"standard_lots"`
	MiniLots     decimal.Decimal `json:"mini_lots"`
	MicroLots    decimal.Decimal `json:"micro_lots"`
}

func (p PositionSize) IsZero() bool {
	return p.Units.IsZero() && p.StandardLots.IsZero() && p.MiniLots.IsZero() && p.MicroLots.IsZero()
}

// Recommendation is a candidate sized for one request. Never persisted.
type Recommendation struct {
	Symbol          string          `json:"symbol"`
	Style           Style           `json:"style"`
	Direction       Direction       `json:"direction"`
	Entry           decimal.Decimal `json:"entry"`
	StopLoss        decimal.Decimal `json:"stop_loss"`
	TakeProfit      decimal.Decimal `json:"take_profit"`
	RiskAmount      decimal.Decimal `json:"risk_amount"`
	RiskPercentage  decimal.Decimal `json:"risk_percentage"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
	RiskRewardRatio decimal.Decimal `json:"risk_reward_ratio"`
	PositionSize    PositionSize    `json:"position_size"`
	Signals         []string        `json:"signals"`
	QualityScore    int             `json:"quality_score"`
	CreatedAt       time.Time       `json:"created_at"`
}
