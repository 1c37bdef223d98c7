package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Alias1177/ForexAdvisor/internal/catalog"
	"github.com/Alias1177/ForexAdvisor/internal/config"
	"github.com/Alias1177/ForexAdvisor/internal/platform/http"
	"github.com/Alias1177/ForexAdvisor/internal/platform/logging"
	"github.com/Alias1177/ForexAdvisor/internal/profile"
	"github.com/Alias1177/ForexAdvisor/internal/recommend"
	"github.com/Alias1177/ForexAdvisor/internal/report"
	"github.com/Alias1177/ForexAdvisor/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func main() {
	styleFlag := flag.String("style", "DAY", "trade style to broadcast: DAY or SWING")
	dryRun := flag.Bool("dry-run", false, "log the recipients without sending anything")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		l.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		l.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closer.Close()

	style, err := models.ParseStyle(*styleFlag)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid style")
	}
	if cfg.DBDriver == config.DriverMemory {
		logger.Fatal().Msg("Broadcast needs stored profiles, set DB_DRIVER to postgres or sqlite3")
	}
	if cfg.TelegramBotToken == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	source := catalog.Default()
	if cfg.CatalogPath != "" {
		if source, err = catalog.Load(cfg.CatalogPath); err != nil {
			logger.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load candidate catalog")
		}
	}
	engine := recommend.NewEngine(source, recommend.WithLogger(logger))

	store, storeCloser, err := profile.Open(cfg.ConnectionParams(), cfg.DefaultProfile())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize profile store")
	}
	defer storeCloser.Close()

	ctx := context.Background()
	users, err := store.List(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get users from database")
	}
	logger.Info().Int("users", len(users)).Str("style", string(style)).Msg("Starting broadcast")

	var api *tgbotapi.BotAPI
	if !*dryRun {
		// the client's limiter keeps us under Telegram's per-bot flood limit
		client := http.NewClient(http.ClientOptions{
			Timeout:        cfg.Timeout(),
			RequestsPerSec: cfg.RequestsPerSec,
		})
		api, err = tgbotapi.NewBotAPIWithClient(cfg.TelegramBotToken, tgbotapi.APIEndpoint, client)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
		}
	}

	successCount := 0
	errorCount := 0

	for i, user := range users {
		userLog := logger.With().Int64("user_id", user.UserID).Int64("chat_id", user.ChatID).Logger()

		recs, err := engine.Generate(style, cfg.RecommendationCount, user.Profile.AccountSize, user.Profile.RiskPerTrade)
		if err != nil {
			userLog.Error().Err(err).Msg("Failed to generate recommendations")
			errorCount++
			continue
		}
		text := composeBroadcast(style, recs, user.Profile)

		if *dryRun {
			userLog.Info().Int("recommendations", len(recs)).Msg("Dry run, not sent")
			successCount++
			continue
		}

		msg := tgbotapi.NewMessage(user.ChatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := api.Send(msg); err != nil {
			userLog.Error().Err(err).Msg("Failed to send message")
			errorCount++
			continue
		}
		userLog.Info().Msgf("Message sent [%d/%d]", i+1, len(users))
		successCount++
	}

	logger.Info().
		Int("total", len(users)).
		Int("sent", successCount).
		Int("failed", errorCount).
		Msg("Broadcast completed")

	fmt.Printf("\n🎯 Broadcast completed!\n")
	fmt.Printf("📊 Stats: %d sent, %d failed out of %d total users\n",
		successCount, errorCount, len(users))
}

// composeBroadcast joins the user's reports and the summary into one message.
func composeBroadcast(style models.Style, recs []models.Recommendation, p models.RiskProfile) string {
	parts := make([]string, 0, len(recs)+1)
	for _, rec := range recs {
		parts = append(parts, report.Render(rec))
	}
	parts = append(parts, report.Summary(style, len(recs), p.RiskPerTrade))
	return strings.Join(parts, "\n")
}
