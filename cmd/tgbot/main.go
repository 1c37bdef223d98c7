package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alias1177/ForexAdvisor/internal/bot"
	"github.com/Alias1177/ForexAdvisor/internal/catalog"
	"github.com/Alias1177/ForexAdvisor/internal/config"
	"github.com/Alias1177/ForexAdvisor/internal/platform/http"
	"github.com/Alias1177/ForexAdvisor/internal/platform/logging"
	"github.com/Alias1177/ForexAdvisor/internal/profile"
	"github.com/Alias1177/ForexAdvisor/internal/recommend"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func main() {
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

	if cfg.TelegramBotToken == "" {
		logger.Fatal().Msg("TELEGRAM_BOT_TOKEN not set in environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := catalog.Default()
	if cfg.CatalogPath != "" {
		if source, err = catalog.Load(cfg.CatalogPath); err != nil {
			logger.Fatal().Err(err).Str("path", cfg.CatalogPath).Msg("Failed to load candidate catalog")
		}
	}
	engine := recommend.NewEngine(source, recommend.WithLogger(logger))

	store, storeCloser, err := profile.Open(cfg.ConnectionParams(), cfg.DefaultProfile())
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to initialize profile store")
	}
	defer storeCloser.Close()

	client := http.NewClient(http.ClientOptions{
		Timeout:        cfg.Timeout(),
		RequestsPerSec: cfg.RequestsPerSec,
	})

	api, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramBotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}
	logger.Info().Str("username", api.Self.UserName).Msg("Authorized on Telegram")

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	b := bot.New(api, store, engine, bot.Options{
		Count:   cfg.RecommendationCount,
		Workers: cfg.UpdateWorkers,
		Logger:  logger,
	})

	if err := b.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Bot stopped with error")
		return
	}
	logger.Info().Msg("Bot stopped")
}
