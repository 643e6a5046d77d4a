package responder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	"github.com/poolmart/poolbot/internal/backend"
	"github.com/poolmart/poolbot/internal/config"
	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/pkg/cache"
	"github.com/poolmart/poolbot/pkg/retry"
)

// fakeGen scripts Generate replies; each call records the messages it saw.
type fakeGen struct {
	reply string
	err   error
	calls [][]core.Message
}

func (f *fakeGen) Generate(ctx context.Context, messages []core.Message, opts core.GenerateOptions) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGen) GenerateObject(ctx context.Context, messages []core.Message, out any) error {
	return errors.New("not used")
}

// lastUserContent returns the user message of the most recent call.
func (f *fakeGen) lastUserContent() string {
	if len(f.calls) == 0 {
		return ""
	}
	msgs := f.calls[len(f.calls)-1]
	return msgs[len(msgs)-1].Content
}

func testClient(baseURL string) *backend.Client {
	return backend.NewClient(&config.BackendConfig{
		BaseURL:        baseURL,
		CustomerID:     "HPTA",
		BranchCode:     "BELHARR",
		ShipToSequence: "1",
	}, &retry.Config{
		MaxRetries:    0,
		BackoffFactor: 2.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	})
}

// stubBackend serves canned payloads by exact path and records each
// request's path and query parameters.
type stubBackend struct {
	srv      *httptest.Server
	payloads map[string]string
	requests []string
	queries  []url.Values
}

func newStubBackend(payloads map[string]string) *stubBackend {
	sb := &stubBackend{payloads: payloads}
	sb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sb.requests = append(sb.requests, r.URL.Path)
		sb.queries = append(sb.queries, r.URL.Query())
		payload, ok := sb.payloads[r.URL.Path]
		if !ok {
			http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
			return
		}
		w.Write([]byte(payload))
	}))
	return sb
}

func (sb *stubBackend) close() { sb.srv.Close() }

func (sb *stubBackend) products() *backend.ProductClient {
	return backend.NewProductClient(testClient(sb.srv.URL), cache.New())
}

func (sb *stubBackend) stores() *backend.StoreClient {
	return backend.NewStoreClient(testClient(sb.srv.URL), cache.New())
}

func (sb *stubBackend) pricing() *backend.PricingClient {
	return backend.NewPricingClient(testClient(sb.srv.URL), cache.New())
}
