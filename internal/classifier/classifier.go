package classifier

import (
	"context"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/prompts"
	"github.com/poolmart/poolbot/pkg/log"
)

// defaultIntent is what a query maps to when classification cannot run or
// returns something unusable. Neutral category, middling confidence, so the
// scope gate's low-confidence rejection does not trigger on it.
func defaultIntent() core.Intent {
	return core.Intent{
		Primary:    core.CategoryGeneral,
		Confidence: 0.5,
	}
}

// Classifier maps a user query onto intent categories and extracted
// entities with a single structured LLM call.
type Classifier struct {
	gen core.Generator
}

func New(gen core.Generator) *Classifier {
	return &Classifier{gen: gen}
}

// Classify never fails: any model or parse error degrades to the default
// general intent so the pipeline keeps moving.
func (c *Classifier) Classify(ctx context.Context, query string, history []core.Message) core.Intent {
	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.System(prompts.Classifier))
	messages = append(messages, history...)
	messages = append(messages, core.User(query))

	var intent core.Intent
	if err := c.gen.GenerateObject(ctx, messages, &intent); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("intent classification failed, using default")
		return defaultIntent()
	}

	return sanitize(ctx, intent)
}

// sanitize enforces the contract the rest of the pipeline relies on:
// categories must be known and confidence must sit in [0, 1].
func sanitize(ctx context.Context, intent core.Intent) core.Intent {
	if !intent.Primary.Valid() {
		log.FromCtx(ctx).Warn().Str("category", string(intent.Primary)).Msg("unknown primary intent, using default")
		return defaultIntent()
	}
	if intent.Secondary != "" && !intent.Secondary.Valid() {
		log.FromCtx(ctx).Warn().Str("category", string(intent.Secondary)).Msg("dropping unknown secondary intent")
		intent.Secondary = ""
	}
	if intent.Confidence < 0 {
		intent.Confidence = 0
	}
	if intent.Confidence > 1 {
		intent.Confidence = 1
	}
	return intent
}
