package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poolmart/poolbot/pkg/cache"
	"github.com/poolmart/poolbot/pkg/log"
)

const (
	searchTTL        = 30 * time.Minute
	productDetailTTL = time.Hour

	catalogPageSize = 5
	vectorLimit     = 3
)

// comparison keywords that push a query to the vector-enhanced search.
var vectorKeywords = []string{"recommend", "best", "difference", "versus", "vs", "compatible", "alternative"}

// ProductClient wraps the product search and detail endpoints. Search and
// detail calls are memoized in the shared cache.
type ProductClient struct {
	client *Client
	cache  *cache.Cache
}

func NewProductClient(client *Client, c *cache.Cache) *ProductClient {
	return &ProductClient{client: client, cache: c}
}

// SearchCatalog runs the lexical catalog search.
func (p *ProductClient) SearchCatalog(ctx context.Context, term string, pageSize, page int) (json.RawMessage, error) {
	key := cache.Key("search_catalog", term, pageSize, page)
	return cache.Through(p.cache, key, searchTTL, func() (json.RawMessage, error) {
		params := url.Values{}
		params.Set("term", term)
		params.Set("page_size", strconv.Itoa(pageSize))
		params.Set("page", strconv.Itoa(page))
		return p.client.Get(ctx, "/api/search", params)
	})
}

// SearchVector runs the vector-enhanced product search.
func (p *ProductClient) SearchVector(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	key := cache.Key("search_vector", query, limit)
	return cache.Through(p.cache, key, searchTTL, func() (json.RawMessage, error) {
		params := url.Values{}
		params.Set("query", query)
		params.Set("limit", strconv.Itoa(limit))
		return p.client.Get(ctx, "/api/products/search", params)
	})
}

// Detail fetches a single product by part number.
func (p *ProductClient) Detail(ctx context.Context, partNumber string) (json.RawMessage, error) {
	key := cache.Key("product_detail", partNumber)
	return cache.Through(p.cache, key, productDetailTTL, func() (json.RawMessage, error) {
		return p.client.Get(ctx, "/api/products/"+url.PathEscape(partNumber), nil)
	})
}

// Search picks between the two search backends: queries of four or more
// words, or containing comparison/recommendation wording, go to the vector
// search; everything else hits the catalog search.
func (p *ProductClient) Search(ctx context.Context, query string) (json.RawMessage, error) {
	if useVectorSearch(query) {
		log.FromCtx(ctx).Debug().Str("query", query).Msg("routing to vector search")
		return p.SearchVector(ctx, query, vectorLimit)
	}
	return p.SearchCatalog(ctx, query, catalogPageSize, 1)
}

func useVectorSearch(query string) bool {
	if len(strings.Fields(query)) >= 4 {
		return true
	}
	lower := strings.ToLower(query)
	for _, kw := range vectorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
