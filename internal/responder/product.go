package responder

import (
	"context"
	"fmt"

	"github.com/poolmart/poolbot/internal/backend"
	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/prompts"
	"github.com/poolmart/poolbot/pkg/log"
)

// Product answers product-search queries. A part number goes to the detail
// endpoint first; when that fails, or no part number was extracted, it runs
// the search heuristic over the product name or the raw query.
type Product struct {
	gen      core.Generator
	products *backend.ProductClient
}

func NewProduct(gen core.Generator, products *backend.ProductClient) *Product {
	return &Product{gen: gen, products: products}
}

func (r *Product) Respond(ctx context.Context, query string, entities core.Entities) string {
	searchTerm := query
	if entities.ProductName != "" {
		searchTerm = entities.ProductName
	}

	if entities.PartNumber != "" {
		detail, err := r.products.Detail(ctx, entities.PartNumber)
		if err == nil {
			task := fmt.Sprintf("Provide information about product with part number %s", entities.PartNumber)
			reply, err := answer(ctx, r.gen, prompts.Product, task, []contextBlock{{"product_details", detail}})
			if err != nil {
				return apologize(ctx, "product detail answer failed", err)
			}
			return reply
		}
		log.FromCtx(ctx).Warn().Err(err).Str("part_number", entities.PartNumber).Msg("product detail failed, falling back to search")
	}

	results, err := r.products.Search(ctx, searchTerm)
	if err != nil {
		return apologize(ctx, "product search failed", err)
	}

	task := fmt.Sprintf("Provide information about products matching %q", searchTerm)
	reply, err := answer(ctx, r.gen, prompts.Product, task, []contextBlock{{"search_results", results}})
	if err != nil {
		return apologize(ctx, "product search answer failed", err)
	}
	return reply
}
