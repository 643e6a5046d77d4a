package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/poolmart/poolbot/internal/config"
	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/service/chat"
	"github.com/poolmart/poolbot/pkg/log"
)

const baseContextKey = "base_context"

const welcomeText = `Hi! I'm ` + core.BotName + `, your pool equipment assistant.

Ask me about products, prices, store locations, or how to keep your pool running. Send /help for examples.`

const helpText = `Here's what I can do:

- *Find products*: "variable speed pump for a 15k gallon pool"
- *Look up a part*: "tell me about LZA406103A"
- *Check prices*: "how much is part LZA406103A?"
- *Find a store*: "stores near 02067" or "branch 42"
- *Give advice*: "my pump is humming but not moving water"

Send /clear to start a fresh conversation.`

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	service *chat.Chat
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	service *chat.Chat,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		service: service,
	}

	// Carry the app context (with logger) into every handler
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle("/help", bot.handleHelp)
	b.Handle("/clear", bot.handleClear)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func sessionID(c tele.Context) string {
	return fmt.Sprintf("telegram-%d", c.Chat().ID)
}

func (b *Bot) handleStart(c tele.Context) error {
	return b.sendMarkdown(b.requestCtx(c), c, welcomeText)
}

func (b *Bot) handleHelp(c tele.Context) error {
	return b.sendMarkdown(b.requestCtx(c), c, helpText)
}

func (b *Bot) handleClear(c tele.Context) error {
	ctx := b.requestCtx(c)
	if err := b.service.Reset(ctx, sessionID(c)); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to clear session")
		return c.Send("Sorry, I couldn't clear the conversation. Please try again.")
	}
	return c.Send("Conversation cleared. What can I help you with?")
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := b.requestCtx(c)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	reply := b.service.Handle(ctx, sessionID(c), c.Text())
	return b.sendMarkdown(ctx, c, reply)
}

func (b *Bot) requestCtx(c tele.Context) context.Context {
	if ctx, ok := c.Get(baseContextKey).(context.Context); ok {
		return ctx
	}
	return context.Background()
}
