package coordinator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/prompts"
	"github.com/poolmart/poolbot/internal/responder"
	"github.com/poolmart/poolbot/pkg/log"
)

const answerTemperature = 0.7

// outOfScopeReplies are rotated at random so repeated off-topic queries do
// not get word-for-word identical brush-offs.
var outOfScopeReplies = []string{
	"I'm sorry, but I'm a specialized pool equipment assistant and can only answer questions related to pool equipment, products, pricing, store locations, and technical advice for pools. Please ask me something about pool equipment or maintenance.",
	"As a pool equipment specialist, I can only help with questions about pool products, maintenance, store locations, and technical advice. I don't have information on other topics. How can I assist you with your pool needs?",
	"I'm designed specifically to help with pool equipment queries. I can't answer questions outside that scope. Is there something about pool equipment, maintenance, or our stores that I can help you with?",
}

// Gate decides whether a query should be answered at all.
type Gate interface {
	InScope(ctx context.Context, query string) bool
}

// Classifier maps a query onto intent categories and entities.
type Classifier interface {
	Classify(ctx context.Context, query string, history []core.Message) core.Intent
}

// Coordinator runs the query pipeline: gate, classify, dispatch to the
// intent responders, synthesize when more than one answered.
type Coordinator struct {
	gate       Gate
	classifier Classifier
	responders map[core.Category]responder.Responder
	gen        core.Generator

	// pickReply selects the out-of-scope reply index; overridable in tests.
	pickReply func(n int) int
}

func New(gate Gate, classifier Classifier, responders map[core.Category]responder.Responder, gen core.Generator) *Coordinator {
	return &Coordinator{
		gate:       gate,
		classifier: classifier,
		responders: responders,
		gen:        gen,
		pickReply:  rand.IntN,
	}
}

// answer is one responder's output, tagged with the intent that produced it.
type answer struct {
	category core.Category
	text     string
}

// ProcessQuery turns one user query into a reply. It never returns an
// error: off-topic queries get a scope reply, collaborator failures degrade
// inside the responders.
func (c *Coordinator) ProcessQuery(ctx context.Context, query string, history []core.Message) string {
	logger := log.FromCtx(ctx)
	logger.Info().Str("query", query).Msg("processing query")

	if !c.gate.InScope(ctx, query) {
		return outOfScopeReplies[c.pickReply(len(outOfScopeReplies))]
	}

	intent := c.classifier.Classify(ctx, query, history)
	logger.Info().
		Str("primary", string(intent.Primary)).
		Str("secondary", string(intent.Secondary)).
		Float64("confidence", intent.Confidence).
		Msg("query classified")

	answers := []answer{{intent.Primary, c.dispatch(ctx, intent.Primary, query, intent.Entities, history)}}
	if intent.Secondary != "" && intent.Secondary != intent.Primary {
		answers = append(answers, answer{intent.Secondary, c.dispatch(ctx, intent.Secondary, query, intent.Entities, history)})
	}

	if len(answers) == 1 {
		return answers[0].text
	}
	return c.synthesize(ctx, query, answers)
}

func (c *Coordinator) dispatch(ctx context.Context, category core.Category, query string, entities core.Entities, history []core.Message) string {
	if r, ok := c.responders[category]; ok {
		return r.Respond(ctx, query, entities)
	}
	return c.generalAnswer(ctx, query, history)
}

// generalAnswer handles queries that need no backend data: straight
// generation with the assistant persona and the conversation so far.
func (c *Coordinator) generalAnswer(ctx context.Context, query string, history []core.Message) string {
	messages := make([]core.Message, 0, len(history)+2)
	messages = append(messages, core.System(prompts.Assistant))
	messages = append(messages, history...)
	messages = append(messages, core.User(query))

	reply, err := c.gen.Generate(ctx, messages, core.GenerateOptions{Temperature: answerTemperature})
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("general answer failed")
		return responder.Apology
	}
	return reply
}

// synthesize merges multiple intent answers into one reply. When the merge
// generation fails, the primary answer stands on its own.
func (c *Coordinator) synthesize(ctx context.Context, query string, answers []answer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Original query: %s\n\n", query)
	for _, a := range answers {
		fmt.Fprintf(&sb, "%s Agent Response:\n%s\n\n", titleCategory(a.category), a.text)
	}
	sb.WriteString(prompts.Synthesize)

	messages := []core.Message{
		core.System(prompts.Assistant),
		core.User(sb.String()),
	}
	reply, err := c.gen.Generate(ctx, messages, core.GenerateOptions{Temperature: answerTemperature})
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("synthesis failed, returning primary answer")
		return answers[0].text
	}
	return reply
}

// titleCategory renders a category for the synthesis prompt, e.g.
// product_search becomes "Product Search".
func titleCategory(c core.Category) string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
