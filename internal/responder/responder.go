package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/pkg/log"
)

// Apology is the user-facing answer when a responder's collaborators fail.
// Internals never leak into chat output; the details go to the log.
const Apology = "I'm sorry, I ran into a problem while processing your request. Please try again in a moment."

// answerTemperature matches the conversational calls; structured extraction
// uses its own setting inside the provider.
const answerTemperature = 0.7

// Responder turns one classified query into a user-facing answer. It never
// returns an error; failures degrade to clarification or apology text.
type Responder interface {
	Respond(ctx context.Context, query string, entities core.Entities) string
}

// contextBlock is a named payload attached to the generation request so the
// model can ground its answer in backend data.
type contextBlock struct {
	name    string
	payload json.RawMessage
}

// answer runs one grounded generation: the responder's system prompt, then
// the task with any context blocks appended.
func answer(ctx context.Context, gen core.Generator, system, task string, blocks []contextBlock) (string, error) {
	var sb strings.Builder
	sb.WriteString(task)
	if len(blocks) > 0 {
		sb.WriteString("\n\nContext:")
		for _, block := range blocks {
			fmt.Fprintf(&sb, "\n%s: %s", block.name, block.payload)
		}
	}

	messages := []core.Message{
		core.System(system),
		core.User(sb.String()),
	}
	return gen.Generate(ctx, messages, core.GenerateOptions{Temperature: answerTemperature})
}

// apologize logs the failure and returns the canned apology.
func apologize(ctx context.Context, what string, err error) string {
	log.FromCtx(ctx).Error().Err(err).Msg(what)
	return Apology
}
