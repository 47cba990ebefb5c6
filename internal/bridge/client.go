package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"celinker/internal/services"
)

// maxResponseBytes caps bridge payload reads; candidate lists are small and
// an unbounded read would let a misbehaving bridge exhaust memory.
const maxResponseBytes = 8 << 20

// SearchQuery describes one bridge search call for a derived key.
type SearchQuery struct {
	PN      string
	Limit   int
	Analyze bool
	TraceID string
}

// Client defines the bridge operations the linker depends on. Implementations
// must be safe for concurrent use; search keys fan out in parallel.
type Client interface {
	State(ctx context.Context, traceID string) (State, error)
	Search(ctx context.Context, query SearchQuery) ([]Row, error)
}

// HTTPClient talks to a bridge over HTTP.
type HTTPClient struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAuthToken sets the bearer token sent with every request.
func WithAuthToken(token string) Option {
	return func(c *HTTPClient) {
		c.authToken = strings.TrimSpace(token)
	}
}

// New creates a bridge client.
func New(baseURL string, opts ...Option) (*HTTPClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("bridge base url required")
	}
	client := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// State fetches the capability payload.
func (c *HTTPClient) State(ctx context.Context, traceID string) (State, error) {
	var payload State
	if err := c.get(ctx, "/state", nil, traceID, &payload); err != nil {
		return State{}, err
	}
	return payload, nil
}

// searchResponse accepts both response shapes the bridge emits: a bare array
// or an object with a results field.
type searchResponse struct {
	Results []Row `json:"results"`
}

// Search executes one query for one derived key.
func (c *HTTPClient) Search(ctx context.Context, query SearchQuery) ([]Row, error) {
	pn := strings.TrimSpace(query.PN)
	if pn == "" {
		return nil, services.Wrap(services.ErrInternal, "bridge", "search", "query pn must not be empty", nil)
	}
	params := url.Values{}
	params.Set("pn", pn)
	params.Set("limit", strconv.Itoa(query.Limit))
	if query.Analyze {
		params.Set("analyze", "true")
	}

	body, err := c.request(ctx, "/complexes/search", params, query.TraceID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var rows []Row
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, services.Wrap(services.ErrNetwork, "bridge", "search", "decode response", err)
		}
		return rows, nil
	}
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrNetwork, "bridge", "search", "decode response", err)
	}
	return payload.Results, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, traceID string, out any) error {
	body, err := c.request(ctx, path, params, traceID)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return services.Wrap(services.ErrNetwork, "bridge", path, "decode response", err)
	}
	return nil
}

func (c *HTTPClient) request(ctx context.Context, path string, params url.Values, traceID string) ([]byte, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "bridge", path, "parse url", err)
	}
	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrInternal, "bridge", path, "build request", err)
	}
	req.Header.Set("User-Agent", "celinker/1.0")
	if traceID != "" {
		req.Header.Set("X-Trace-Id", traceID)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "bridge", path, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, services.Wrap(services.ErrAuth, "bridge", path, fmt.Sprintf("credentials rejected (status=%d)", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, services.Wrap(services.ErrNetwork, "bridge", path, fmt.Sprintf("unexpected status %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "bridge", path, "read response", err)
	}
	return body, nil
}
