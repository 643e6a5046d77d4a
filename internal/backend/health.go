package backend

import (
	"context"
	"encoding/json"
)

// Health probes the domain API's liveness endpoint. Never cached.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	return c.Get(ctx, "/health", nil)
}
