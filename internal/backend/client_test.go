package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poolmart/poolbot/internal/config"
	"github.com/poolmart/poolbot/pkg/cache"
	"github.com/poolmart/poolbot/pkg/retry"
)

func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:    2,
		BackoffFactor: 2.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func newTestClient(baseURL string) *Client {
	return NewClient(&config.BackendConfig{
		BaseURL:        baseURL,
		CustomerID:     "HPTA",
		BranchCode:     "BELHARR",
		ShipToSequence: "1",
	}, fastRetry())
}

func TestClient_TenantHeaders(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if _, err := client.Health(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for header, want := range map[string]string{
		"X-Customer-Id":      "HPTA",
		"X-Branch-Code":      "BELHARR",
		"X-Ship-To-Sequence": "1",
	} {
		if got := gotHeaders.Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestClient_RetryExhaustion(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"detail":"backend down"}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Get(context.Background(), "/api/search", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusBadGateway)
	}
	if apiErr.Message != "backend down" {
		t.Errorf("Message = %q, want detail field", apiErr.Message)
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestClient_RetryRecovers(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	payload, err := client.Get(context.Background(), "/api/search", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != `{"ok":true}` {
		t.Errorf("payload = %s", payload)
	}
}

func TestClient_TransportErrorBecomesSynthetic500(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Get(context.Background(), "/health", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestClient_ErrorDetailFallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not json at all", http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Get(context.Background(), "/api/products/NOPE", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "not json at all" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestProductClient_SearchHeuristic(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantVector bool
	}{
		{"short lexical query", "pool pump", false},
		{"four words routes to vector", "quiet pump for spa", true},
		{"recommend keyword", "recommend a pump", true},
		{"versus keyword", "sand vs cartridge", true},
		{"three plain words", "hayward super pump", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := useVectorSearch(tt.query); got != tt.wantVector {
				t.Errorf("useVectorSearch(%q) = %v, want %v", tt.query, got, tt.wantVector)
			}
		})
	}
}

func TestProductClient_SearchIsCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"products":[]}`))
	}))
	defer srv.Close()

	products := NewProductClient(newTestClient(srv.URL), cache.New())
	for i := 0; i < 3; i++ {
		if _, err := products.SearchCatalog(context.Background(), "pump", 5, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("backend called %d times, want 1", got)
	}
}

func TestStoreClient_SearchParams(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stores/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"stores":[]}`))
	}))
	defer srv.Close()

	stores := NewStoreClient(newTestClient(srv.URL), cache.New())
	if _, err := stores.Search(context.Background(), 27, -71.7, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for param, want := range map[string]string{
		"latitude":  "27",
		"longitude": "-71.7",
		"radius":    "50",
		"page_size": "10",
		"page":      "1",
	} {
		if got := gotQuery.Get(param); got != want {
			t.Errorf("%s = %q, want %q", param, got, want)
		}
	}
}

func TestStoreClient_DetailParsesCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stores/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":7,"name":"Belmont","location":{"latitude":42.4,"longitude":-71.2}}`))
	}))
	defer srv.Close()

	stores := NewStoreClient(newTestClient(srv.URL), cache.New())
	detail, err := stores.Detail(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Location == nil {
		t.Fatal("expected parsed coordinates")
	}
	if detail.Location.Latitude != 42.4 || detail.Location.Longitude != -71.2 {
		t.Errorf("coords = %+v", detail.Location)
	}
	if len(detail.Raw) == 0 {
		t.Error("expected raw payload retained")
	}
}

func TestPricingClient_BuildsItemsBody(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/pricing" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"items":[{"item_code":"LZA406103A","price":129.99}]}`))
	}))
	defer srv.Close()

	pricing := NewPricingClient(newTestClient(srv.URL), cache.New())
	_, err := pricing.GetPricing(context.Background(), []PricingItem{{ItemCode: "LZA406103A", Unit: "EA"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, ok := gotBody["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items = %v", gotBody["items"])
	}
	item := items[0].(map[string]any)
	if item["item_code"] != "LZA406103A" || item["unit"] != "EA" {
		t.Errorf("item = %v", item)
	}
}

func TestPricingClient_FailureFoldsIntoPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"pricing unavailable"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	pricing := NewPricingClient(newTestClient(srv.URL), cache.New())
	payload, err := pricing.GetPricing(context.Background(), []PricingItem{{ItemCode: "X1Y2Z3", Unit: "EA"}})
	if err != nil {
		t.Fatalf("expected folded payload, got error: %v", err)
	}

	var parsed struct {
		Items []any  `json:"items"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(parsed.Items) != 0 {
		t.Errorf("items = %v, want empty", parsed.Items)
	}
	if parsed.Error != "pricing unavailable" {
		t.Errorf("error = %q", parsed.Error)
	}
}
