package chat

import (
	"context"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/storage/sqlite"
	"github.com/poolmart/poolbot/pkg/log"
)

// Processor is the query pipeline behind the chat surface.
type Processor interface {
	ProcessQuery(ctx context.Context, query string, history []core.Message) string
}

// Chat ties the query pipeline to per-session history. Transports hand it
// raw user text; it loads context, answers, and persists the turn.
type Chat struct {
	processor    Processor
	history      *sqlite.History
	historyLimit int
}

func New(processor Processor, history *sqlite.History, historyLimit int) *Chat {
	return &Chat{
		processor:    processor,
		history:      history,
		historyLimit: historyLimit,
	}
}

// Handle answers one message in a session. History failures are logged and
// skipped; the user still gets an answer.
func (c *Chat) Handle(ctx context.Context, sessionID, text string) string {
	logger := log.FromCtx(ctx)

	history, err := c.history.GetMessages(ctx, sessionID, c.historyLimit)
	if err != nil {
		logger.Warn().Err(err).Str("session", sessionID).Msg("failed to load history")
		history = nil
	}

	reply := c.processor.ProcessQuery(ctx, text, history)

	if err := c.history.AddMessage(ctx, sessionID, core.User(text)); err != nil {
		logger.Warn().Err(err).Str("session", sessionID).Msg("failed to persist user message")
	}
	if err := c.history.AddMessage(ctx, sessionID, core.Assistant(reply)); err != nil {
		logger.Warn().Err(err).Str("session", sessionID).Msg("failed to persist assistant message")
	}

	return reply
}

// HandleStateless answers with caller-supplied history and persists nothing.
func (c *Chat) HandleStateless(ctx context.Context, text string, history []core.Message) string {
	if len(history) > c.historyLimit {
		history = history[len(history)-c.historyLimit:]
	}
	return c.processor.ProcessQuery(ctx, text, history)
}

// Reset drops a session's stored history.
func (c *Chat) Reset(ctx context.Context, sessionID string) error {
	return c.history.DeleteSession(ctx, sessionID)
}
