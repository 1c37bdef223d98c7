// Package recommend turns catalog candidates into sized, ranked trade recommendations.
package recommend

import (
	"sort"
	"time"

	"github.com/Alias1177/ForexAdvisor/internal/report"
	"github.com/Alias1177/ForexAdvisor/internal/trading/risk"
	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Engine is stateless apart from its collaborators and safe for concurrent use.
type Engine struct {
	source models.CandidateSource
	logger zerolog.Logger
	now    func() time.Time
}

type Option func(*Engine)

// WithLogger sets the logger used for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l.With().Str("component", "recommend").Logger() }
}

// WithClock overrides time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(source models.CandidateSource, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate sizes up to count candidates of style for the given account and ranks them
// by quality score, highest first. Equal scores keep catalog order. Fewer than count
// recommendations are returned when the catalog runs out.
func (e *Engine) Generate(style models.Style, count int, accountSize, riskPerTrade decimal.Decimal) ([]models.Recommendation, error) {
	if err := validate(style, count, accountSize, riskPerTrade); err != nil {
		return nil, err
	}

	candidates := e.source.CandidatesFor(style, count)
	createdAt := e.now()

	recs := make([]models.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		metrics, err := risk.Evaluate(c.Entry, c.StopLoss, c.TakeProfit, riskPerTrade, accountSize)
		if err != nil {
			return nil, err
		}
		entry, stop := c.Entry, c.StopLoss

		recs = append(recs, models.Recommendation{
			Symbol:          c.Symbol,
			Style:           c.Style,
			Direction:       c.Direction,
			Entry:           c.Entry,
			StopLoss:        c.StopLoss,
			TakeProfit:      c.TakeProfit,
			RiskAmount:      riskPerTrade,
			RiskPercentage:  metrics.RiskPercentage,
			PotentialProfit: metrics.PotentialProfit,
			RiskRewardRatio: metrics.RiskRewardRatio,
			PositionSize:    risk.Size(&entry, &stop, riskPerTrade),
			Signals:         append([]string(nil), c.Signals...),
			QualityScore:    c.QualityScore,
			CreatedAt:       createdAt,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].QualityScore > recs[j].QualityScore
	})

	e.logger.Debug().
		Str("style", string(style)).
		Int("requested", count).
		Int("generated", len(recs)).
		Msg("Generated recommendations")

	return recs, nil
}

// Reports is Generate followed by report.Render for each recommendation.
func (e *Engine) Reports(style models.Style, count int, accountSize, riskPerTrade decimal.Decimal) ([]string, error) {
	recs, err := e.Generate(style, count, accountSize, riskPerTrade)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = report.Render(rec)
	}
	return out, nil
}

func validate(style models.Style, count int, accountSize, riskPerTrade decimal.Decimal) error {
	if style != models.StyleDay && style != models.StyleSwing {
		return &models.InvalidRequestError{Field: "style", Reason: "must be DAY or SWING"}
	}
	if count < 1 {
		return &models.InvalidRequestError{Field: "count", Reason: "must be at least 1"}
	}
	if !accountSize.IsPositive() {
		return &models.InvalidRequestError{Field: "account_size", Reason: "must be greater than zero"}
	}
	if !riskPerTrade.IsPositive() {
		return &models.InvalidRequestError{Field: "risk_per_trade", Reason: "must be greater than zero"}
	}
	return nil
}
