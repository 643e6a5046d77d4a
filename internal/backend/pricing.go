package backend

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/poolmart/poolbot/pkg/cache"
	"github.com/poolmart/poolbot/pkg/log"
)

const pricingTTL = 30 * time.Minute

// DefaultUnit is the unit of measure assumed when the user gives none.
const DefaultUnit = "EA"

// PricingItem is one line of a pricing request.
type PricingItem struct {
	ItemCode string `json:"item_code"`
	Unit     string `json:"unit"`
}

// PricingClient wraps the pricing endpoint.
type PricingClient struct {
	client *Client
	cache  *cache.Cache
}

func NewPricingClient(client *Client, c *cache.Cache) *PricingClient {
	return &PricingClient{client: client, cache: c}
}

// GetPricing fetches pricing for the given items. A backend failure is
// folded into the payload ({"items":[],"error":...}) rather than returned,
// so the responder can still describe the outcome; the degraded payload is
// cached like any other value.
func (p *PricingClient) GetPricing(ctx context.Context, items []PricingItem) (json.RawMessage, error) {
	key := cache.Key("get_pricing", items)
	return cache.Through(p.cache, key, pricingTTL, func() (json.RawMessage, error) {
		body := map[string]any{"items": items}
		result, err := p.client.Post(ctx, "/api/pricing", body)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				log.FromCtx(ctx).Error().Err(err).Msg("pricing request failed")
				fallback, _ := json.Marshal(map[string]any{"items": []any{}, "error": apiErr.Message})
				return json.RawMessage(fallback), nil
			}
			return nil, err
		}
		return result, nil
	})
}
