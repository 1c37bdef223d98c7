// Package bot dispatches Telegram updates to the recommendation engine and the profile store.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Alias1177/ForexAdvisor/internal/id"
	"github.com/Alias1177/ForexAdvisor/internal/profile"
	"github.com/Alias1177/ForexAdvisor/internal/recommend"
	"github.com/Alias1177/ForexAdvisor/internal/report"
	"github.com/Alias1177/ForexAdvisor/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Sender is the part of *tgbotapi.BotAPI the bot needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Options configures a Bot. Zero values fall back to 3 recommendations and 8 workers.
type Options struct {
	Count   int
	Workers int
	Logger  zerolog.Logger
	Now     func() time.Time
}

type Bot struct {
	sender  Sender
	store   profile.Store
	engine  *recommend.Engine
	count   int
	workers int
	logger  zerolog.Logger
	now     func() time.Time
}

func New(sender Sender, store profile.Store, engine *recommend.Engine, opts Options) *Bot {
	if opts.Count < 1 {
		opts.Count = 3
	}
	if opts.Workers < 1 {
		opts.Workers = 8
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Bot{
		sender:  sender,
		store:   store,
		engine:  engine,
		count:   opts.Count,
		workers: opts.Workers,
		logger:  opts.Logger.With().Str("component", "bot").Logger(),
		now:     opts.Now,
	}
}

// Run handles updates until the channel closes or ctx is cancelled, with at most
// Workers updates in flight. It waits for in-flight handlers before returning.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				b.HandleUpdate(gctx, update)
				return nil
			})
		}
	}
}

// HandleUpdate answers a single update. Only text messages are handled.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	chatID := msg.Chat.ID
	userID := chatID
	name := "User"
	if msg.From != nil {
		userID = msg.From.ID
		if msg.From.UserName != "" {
			name = msg.From.UserName
		}
	}

	logger := b.logger.With().
		Str("request_id", id.New()).
		Int64("user_id", userID).
		Int64("chat_id", chatID).
		Logger()
	ctx = logger.WithContext(ctx)

	if msg.IsCommand() {
		logger.Info().Str("command", msg.Command()).Msg("Command received")
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, userID, chatID, name)
		case "help":
			b.reply(ctx, chatID, helpMessage, true)
		case "settings":
			b.handleSettings(ctx, userID, chatID)
		case "daytrades":
			b.handleTrades(ctx, userID, chatID, models.StyleDay)
		case "swingtrades":
			b.handleTrades(ctx, userID, chatID, models.StyleSwing)
		default:
			b.reply(ctx, chatID, unknownMessage, false)
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch text {
	case ButtonDayTrades:
		b.handleTrades(ctx, userID, chatID, models.StyleDay)
	case ButtonSwingTrades:
		b.handleTrades(ctx, userID, chatID, models.StyleSwing)
	case ButtonSettings:
		b.handleSettings(ctx, userID, chatID)
	case ButtonHelp:
		b.reply(ctx, chatID, helpMessage, true)
	default:
		if profile.IsSettingsText(text) {
			b.handleSettingsUpdate(ctx, userID, chatID, text)
			return
		}
		b.reply(ctx, chatID, unknownMessage, false)
	}
}

func (b *Bot) handleStart(ctx context.Context, userID, chatID int64, name string) {
	p, err := b.store.GetOrDefault(ctx, userID, chatID)
	if err != nil {
		b.internalError(ctx, chatID, err, "Error retrieving profile")
		return
	}

	msg := tgbotapi.NewMessage(chatID, welcomeMessage(name, b.count, p.Profile))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = mainMenuKeyboard()
	b.send(ctx, msg)
}

func (b *Bot) handleSettings(ctx context.Context, userID, chatID int64) {
	p, err := b.store.GetOrDefault(ctx, userID, chatID)
	if err != nil {
		b.internalError(ctx, chatID, err, "Error retrieving profile")
		return
	}
	b.reply(ctx, chatID, settingsMessage(p.Profile), true)
}

// handleSettingsUpdate applies a key:value settings message. A message that fails to
// parse changes nothing.
func (b *Bot) handleSettingsUpdate(ctx context.Context, userID, chatID int64, text string) {
	logger := zerolog.Ctx(ctx)

	update, err := profile.ParseSettings(text)
	if err != nil {
		logger.Info().Err(err).Msg("Rejected settings update")
		b.reply(ctx, chatID, settingsErrorMessage(err), false)
		return
	}

	p, err := b.store.Update(ctx, userID, chatID, update.Apply)
	if err != nil {
		b.internalError(ctx, chatID, err, "Error updating profile")
		return
	}

	logger.Info().
		Str("account_size", p.Profile.AccountSize.String()).
		Str("risk_per_trade", p.Profile.RiskPerTrade.String()).
		Str("session", string(p.Profile.PreferredSession)).
		Msg("Settings updated")
	b.reply(ctx, chatID, settingsUpdatedMessage(p.Profile), true)
}

// handleTrades sends a processing notice, one message per recommendation and a summary.
func (b *Bot) handleTrades(ctx context.Context, userID, chatID int64, style models.Style) {
	logger := zerolog.Ctx(ctx)

	p, err := b.store.GetOrDefault(ctx, userID, chatID)
	if err != nil {
		b.internalError(ctx, chatID, err, "Error retrieving profile")
		return
	}
	session := p.Profile.PreferredSession
	b.reply(ctx, chatID, processingMessage(style, session, session.Contains(b.now())), false)

	recs, err := b.engine.Generate(style, b.count, p.Profile.AccountSize, p.Profile.RiskPerTrade)
	if err != nil {
		if errors.Is(err, models.ErrInvalidRequest) {
			logger.Warn().Err(err).Msg("Invalid recommendation request")
			b.reply(ctx, chatID, generateErrorMessage(style, err), false)
			return
		}
		b.internalError(ctx, chatID, err, "Error generating recommendations")
		return
	}

	for _, rec := range recs {
		b.reply(ctx, chatID, report.Render(rec), true)
	}
	b.reply(ctx, chatID, report.Summary(style, len(recs), p.Profile.RiskPerTrade), true)

	logger.Info().
		Str("style", string(style)).
		Int("recommendations", len(recs)).
		Msg("Recommendations sent")
}

func (b *Bot) internalError(ctx context.Context, chatID int64, err error, what string) {
	zerolog.Ctx(ctx).Error().Err(err).Msg(what)
	b.reply(ctx, chatID, internalErrorMessage, false)
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, markdown bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	b.send(ctx, msg)
}

// send logs delivery failures; retries already happened in the HTTP transport.
func (b *Bot) send(ctx context.Context, msg tgbotapi.MessageConfig) {
	if ctx.Err() != nil {
		return
	}
	if _, err := b.sender.Send(msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send message")
	}
}
