package bot

import (
	"fmt"
	"strings"

	"github.com/Alias1177/ForexAdvisor/internal/profile"
	"github.com/Alias1177/ForexAdvisor/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reply keyboard buttons
const (
	ButtonDayTrades   = "Day Trades"
	ButtonSwingTrades = "Swing Trades"
	ButtonSettings    = "Settings"
	ButtonHelp        = "Help"
)

const helpMessage = "*Forex Trading Bot Help*\n\n" +
	"*Available Commands:*\n" +
	"/start - Start the bot and see welcome message\n" +
	"/daytrades - Get day trade opportunities (medium risk)\n" +
	"/swingtrades - Get swing trade opportunities (low risk)\n" +
	"/settings - Configure your trading parameters\n" +
	"/help - Show this help information\n\n" +
	"*How to Use:*\n" +
	"1. Use /settings to configure your account size and risk parameters\n" +
	"2. Use /daytrades to get day trading opportunities\n" +
	"3. Use /swingtrades to get swing trading opportunities\n\n" +
	"*Trade Information:*\n" +
	"Each trade recommendation includes:\n" +
	"• Entry price\n" +
	"• Stop loss level\n" +
	"• Take profit target\n" +
	"• Position size based on your risk settings\n" +
	"• Risk-reward ratio\n" +
	"• Key technical signals\n\n" +
	"For any issues or questions, please contact support."

const unknownMessage = "Sorry, I didn't understand that. Use /help to see what I can do."

const internalErrorMessage = "Sorry, there was an error. Please try again later."

func welcomeMessage(name string, count int, p models.RiskProfile) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👋 Welcome to the Forex Trading Bot, %s!\n\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, name)))
	sb.WriteString("I can help you find high-probability forex trade opportunities on demand.\n\n")
	sb.WriteString("*Available Commands:*\n")
	sb.WriteString(fmt.Sprintf("/daytrades - Get %d day trade opportunities\n", count))
	sb.WriteString(fmt.Sprintf("/swingtrades - Get %d swing trade opportunities\n", count))
	sb.WriteString("/settings - Configure your trading parameters\n")
	sb.WriteString("/help - Show help information\n\n")
	sb.WriteString("Your current settings:\n")
	sb.WriteString(settingsLines(p))
	sb.WriteString("\nLet's start finding profitable trades! 📈")
	return sb.String()
}

func settingsMessage(p models.RiskProfile) string {
	return "*Your Current Settings:*\n\n" +
		settingsLines(p) +
		"\n*To Update Settings:*\n" +
		"Send a message in this format:\n" +
		"`" + profile.SettingsFormat + "`\n\n" +
		"Session options: " + sessionOptions()
}

func settingsUpdatedMessage(p models.RiskProfile) string {
	return "*Settings Updated:*\n\n" +
		settingsLines(p) +
		"\nYou can now use /daytrades or /swingtrades to get trade recommendations."
}

// settingsErrorMessage is sent without parse mode since the reason may echo user input.
func settingsErrorMessage(err error) string {
	return "Error Updating Settings:\n\n" +
		"Invalid format. Please use the format:\n" +
		profile.SettingsFormat + "\n\n" +
		"Error details: " + err.Error()
}

func processingMessage(style models.Style, session models.Session, open bool) string {
	msg := fmt.Sprintf("🔍 Analyzing the forex market for %s opportunities... This may take a moment.",
		strings.ToLower(style.Title()))
	if !open {
		msg += fmt.Sprintf("\n\nNote: your preferred %s session is currently closed.", session.Label())
	}
	return msg
}

func generateErrorMessage(style models.Style, err error) string {
	return fmt.Sprintf("Error Generating %s Recommendations:\n\n%s\n\nPlease check your /settings and try again.",
		style.Title(), err.Error())
}

func settingsLines(p models.RiskProfile) string {
	return fmt.Sprintf("• Account Size: $%s\n• Risk per Trade: $%s\n• Preferred Session: %s\n",
		p.AccountSize.String(), p.RiskPerTrade.String(), p.PreferredSession.Label())
}

func sessionOptions() string {
	names := make([]string, len(models.Sessions))
	for i, s := range models.Sessions {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonDayTrades),
			tgbotapi.NewKeyboardButton(ButtonSwingTrades),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonSettings),
			tgbotapi.NewKeyboardButton(ButtonHelp),
		),
	)
}
