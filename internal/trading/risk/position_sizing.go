package risk

import (
	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/shopspring/decimal"
)

// Units per lot tier
var (
	StandardLotSize = decimal.NewFromInt(100000)
	MiniLotSize     = decimal.NewFromInt(10000)
	MicroLotSize    = decimal.NewFromInt(1000)
)

var hundred = decimal.NewFromInt(100)

// Metrics holds the risk-reward figures of one trade setup
type Metrics struct {
	RiskRewardRatio decimal.Decimal `json:"risk_reward_ratio"`
	PotentialProfit decimal.Decimal `json:"potential_profit"`
	RiskPercentage  decimal.Decimal `json:"risk_percentage"`
}

// Size converts the stop distance and a monetary risk budget into units and lots.
// A nil price or a zero stop distance yields the zero PositionSize.
func Size(entry, stop *decimal.Decimal, riskAmount decimal.Decimal) models.PositionSize {
	if entry == nil || stop == nil {
		return models.PositionSize{}
	}

	riskPerUnit := entry.Sub(*stop).Abs()
	if riskPerUnit.IsZero() {
		return models.PositionSize{}
	}

	units := riskAmount.Div(riskPerUnit)

	return models.PositionSize{
		Units:        units,
		StandardLots: units.Div(StandardLotSize),
		MiniLots:     units.Div(MiniLotSize),
		MicroLots:    units.Div(MicroLotSize),
	}
}

// RiskRewardRatio is reward distance over risk distance, 0 when the risk distance is 0.
func RiskRewardRatio(entry, stop, target decimal.Decimal) decimal.Decimal {
	risk := entry.Sub(stop).Abs()
	if risk.IsZero() {
		return decimal.Zero
	}
	return target.Sub(entry).Abs().Div(risk)
}

// Evaluate derives the risk-reward ratio, potential profit and the share of the account at risk.
// accountSize must be positive.
func Evaluate(entry, stop, target, riskAmount, accountSize decimal.Decimal) (Metrics, error) {
	if !accountSize.IsPositive() {
		return Metrics{}, &models.InvalidRequestError{Field: "account_size", Reason: "must be greater than zero"}
	}

	rr := RiskRewardRatio(entry, stop, target)

	return Metrics{
		RiskRewardRatio: rr,
		PotentialProfit: riskAmount.Mul(rr),
		RiskPercentage:  riskAmount.Div(accountSize).Mul(hundred),
	}, nil
}
