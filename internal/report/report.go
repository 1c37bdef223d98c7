// Package report renders recommendations as Telegram Markdown messages.
package report

import (
	"fmt"
	"strings"

	"github.com/Alias1177/ForexAdvisor/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Render formats one recommendation. The output depends only on rec.
func Render(rec models.Recommendation) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🔍 *%s Opportunity*\n\n", rec.Style.Title()))
	sb.WriteString(fmt.Sprintf("*%s %s*\n\n", rec.Direction, escape(rec.Symbol)))

	sb.WriteString(fmt.Sprintf("*Entry:* %s\n", rec.Entry.StringFixed(5)))
	sb.WriteString(fmt.Sprintf("*Stop Loss:* %s\n", rec.StopLoss.StringFixed(5)))
	sb.WriteString(fmt.Sprintf("*Take Profit:* %s\n\n", rec.TakeProfit.StringFixed(5)))

	sb.WriteString(fmt.Sprintf("*Risk:* $%s (%s%%)\n", rec.RiskAmount.StringFixed(2), rec.RiskPercentage.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("*Potential Profit:* $%s\n", rec.PotentialProfit.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("*Risk-Reward Ratio:* %s\n\n", rec.RiskRewardRatio.StringFixed(2)))

	sb.WriteString(fmt.Sprintf("*Position Size:* %s micro lots\n\n", rec.PositionSize.MicroLots.StringFixed(2)))

	sb.WriteString("*Key Signals:*\n")
	for _, signal := range rec.Signals {
		sb.WriteString(fmt.Sprintf("• %s\n", escape(signal)))
	}

	sb.WriteString(fmt.Sprintf("\n*Score:* %d (higher is better)\n", rec.QualityScore))

	return sb.String()
}

// Summary is the closing message sent after a batch of recommendations.
func Summary(style models.Style, count int, riskPerTrade decimal.Decimal) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("*%s Opportunities Summary:*\n\n", style.Title()))
	sb.WriteString(fmt.Sprintf("I've analyzed the forex market and provided you with %d %s opportunities.\n\n",
		count, strings.ToLower(style.Title())))

	switch style {
	case models.StyleDay:
		sb.WriteString("These trades are designed for intraday execution with medium risk level.\n")
	case models.StyleSwing:
		sb.WriteString("These trades are designed for multi-day holding with low risk level.\n")
	}
	sb.WriteString(fmt.Sprintf("Position sizes are calculated based on your risk setting of $%s per trade.\n\n",
		riskPerTrade.StringFixed(2)))

	if style == models.StyleDay {
		sb.WriteString("Use /swingtrades to get swing trade opportunities instead.")
	} else {
		sb.WriteString("Use /daytrades to get day trade opportunities instead.")
	}

	return sb.String()
}

// escape guards catalog text, which may come from a user-supplied file, against
// Markdown entity characters.
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
