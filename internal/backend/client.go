package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poolmart/poolbot/internal/config"
	"github.com/poolmart/poolbot/pkg/log"
	"github.com/poolmart/poolbot/pkg/retry"
)

// Client executes requests against the domain REST API with uniform tenant
// headers, retry, and error translation. All failures it returns are
// *APIError; only an unsupported HTTP verb yields a plain error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	retrier    *retry.Retrier
}

func NewClient(cfg *config.BackendConfig, retryCfg *retry.Config) *Client {
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: map[string]string{
			"X-Customer-ID":      cfg.CustomerID,
			"X-Branch-Code":      cfg.BranchCode,
			"X-Ship-To-Sequence": cfg.ShipToSequence,
		},
		retrier: retry.NewRetrier(retryCfg),
	}
}

// Get issues a GET request with optional query parameters.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, endpoint, params, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, endpoint, nil, body)
}

// request runs one logical call with the retry policy wrapped around the
// whole attempt, transport failures included. Only the final failure
// surfaces to the caller.
func (c *Client) request(ctx context.Context, method, endpoint string, params url.Values, body any) (json.RawMessage, error) {
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	var payload json.RawMessage
	err := c.retrier.Do(ctx, func() error {
		result, err := c.attempt(ctx, method, endpoint, params, body)
		if err != nil {
			return err
		}
		payload = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, params url.Values, body any) (json.RawMessage, error) {
	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, &APIError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	log.FromCtx(ctx).Debug().Str("method", method).Str("url", reqURL).Msg("backend request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorDetail(data, resp.Status)}
	}

	return json.RawMessage(data), nil
}

// errorDetail pulls the API's "detail" field out of an error body, falling
// back to the raw body or the HTTP status line.
func errorDetail(body []byte, status string) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return status
}
