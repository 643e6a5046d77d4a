package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/pkg/cache"
)

const (
	storeSearchTTL = time.Hour
	storeDetailTTL = 24 * time.Hour

	storePageSize = 10

	// DefaultRadius is the store search radius in miles when the user
	// gives none.
	DefaultRadius = 50
)

// StoreDetail is the subset of the store payload the pipeline inspects;
// Raw keeps the full payload for answer generation.
type StoreDetail struct {
	ID       int               `json:"id"`
	Name     string            `json:"name"`
	Location *core.Coordinates `json:"location,omitempty"`
	Raw      json.RawMessage   `json:"-"`
}

// StoreClient wraps the store search and detail endpoints.
type StoreClient struct {
	client *Client
	cache  *cache.Cache
}

func NewStoreClient(client *Client, c *cache.Cache) *StoreClient {
	return &StoreClient{client: client, cache: c}
}

// Search finds stores around a coordinate within radius miles.
func (s *StoreClient) Search(ctx context.Context, lat, lng float64, radius int) (json.RawMessage, error) {
	key := cache.Key("search_stores", lat, lng, radius, storePageSize, 1)
	return cache.Through(s.cache, key, storeSearchTTL, func() (json.RawMessage, error) {
		params := url.Values{}
		params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
		params.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
		params.Set("radius", strconv.Itoa(radius))
		params.Set("page_size", strconv.Itoa(storePageSize))
		params.Set("page", "1")
		return s.client.Get(ctx, "/api/stores/search", params)
	})
}

// Detail fetches a single store by id, keeping both the raw payload and the
// parsed coordinates when the store has any.
func (s *StoreClient) Detail(ctx context.Context, storeID int) (*StoreDetail, error) {
	key := cache.Key("store_detail", storeID)
	raw, err := cache.Through(s.cache, key, storeDetailTTL, func() (json.RawMessage, error) {
		return s.client.Get(ctx, "/api/stores/"+strconv.Itoa(storeID), nil)
	})
	if err != nil {
		return nil, err
	}

	detail := &StoreDetail{Raw: raw}
	// Location parsing is best effort; a store without coordinates is
	// still a valid answer.
	_ = json.Unmarshal(raw, detail)
	detail.Raw = raw
	return detail, nil
}
