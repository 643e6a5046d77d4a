package responder

import (
	"context"
	"encoding/json"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/prompts"
)

// Advisor answers technical questions with generation alone. No backend
// data is involved; extracted entities ride along as context.
type Advisor struct {
	gen core.Generator
}

func NewAdvisor(gen core.Generator) *Advisor {
	return &Advisor{gen: gen}
}

func (r *Advisor) Respond(ctx context.Context, query string, entities core.Entities) string {
	var blocks []contextBlock
	if !entities.IsZero() {
		if data, err := json.Marshal(entities); err == nil {
			blocks = append(blocks, contextBlock{"entities", data})
		}
	}

	reply, err := answer(ctx, r.gen, prompts.Advisor, query, blocks)
	if err != nil {
		return apologize(ctx, "advice answer failed", err)
	}
	return reply
}
