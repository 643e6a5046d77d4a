package responder

import (
	"context"
	"strings"

	"github.com/poolmart/poolbot/internal/backend"
	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/prompts"
)

// pricingClarification asks for a part number. Pricing never guesses.
const pricingClarification = "I need a product part number to provide pricing information. Could you please specify which product you're interested in?"

// Pricing answers price queries for explicitly identified parts.
type Pricing struct {
	gen     core.Generator
	pricing *backend.PricingClient
}

func NewPricing(gen core.Generator, pricing *backend.PricingClient) *Pricing {
	return &Pricing{gen: gen, pricing: pricing}
}

func (r *Pricing) Respond(ctx context.Context, query string, entities core.Entities) string {
	var codes []string
	if entities.PartNumber != "" {
		codes = append(codes, entities.PartNumber)
	}
	codes = append(codes, entities.PartNumbers...)

	if len(codes) == 0 {
		return pricingClarification
	}

	unit := entities.Unit
	if unit == "" {
		unit = backend.DefaultUnit
	}

	items := make([]backend.PricingItem, len(codes))
	for i, code := range codes {
		items[i] = backend.PricingItem{ItemCode: code, Unit: unit}
	}

	results, err := r.pricing.GetPricing(ctx, items)
	if err != nil {
		return apologize(ctx, "pricing lookup failed", err)
	}

	task := "Provide pricing information for the following part numbers: " + strings.Join(codes, ", ")
	reply, err := answer(ctx, r.gen, prompts.Pricing, task, []contextBlock{{"pricing_results", results}})
	if err != nil {
		return apologize(ctx, "pricing answer failed", err)
	}
	return reply
}
