package tcgapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"carddex/internal/services"
)

// Set identifies the printed set a card belongs to.
type Set struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Series       string `json:"series"`
	PrintedTotal int    `json:"printedTotal"`
	Total        int    `json:"total"`
	ReleaseDate  string `json:"releaseDate"`
}

// Card represents a single card-search match.
type Card struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Number    string   `json:"number"`
	Rarity    string   `json:"rarity"`
	Supertype string   `json:"supertype"`
	Subtypes  []string `json:"subtypes"`
	HP        string   `json:"hp"`
	Artist    string   `json:"artist"`
	Set       Set      `json:"set"`
}

// QuotaStatus reports the provider's rate-limit headroom as of the last call.
// Limit is zero when the provider did not report quota headers.
type QuotaStatus struct {
	Remaining int
	Limit     int
}

// NearlyExhausted reports whether remaining credits have dropped below the
// supplied fraction of the plan total.
func (q QuotaStatus) NearlyExhausted(fraction float64) bool {
	if q.Limit <= 0 || fraction <= 0 {
		return false
	}
	return float64(q.Remaining) < float64(q.Limit)*fraction
}

// SearchResponse models a card-search result envelope.
type SearchResponse struct {
	Cards       []Card
	Quota       QuotaStatus
	CreditsUsed int
}

// Searcher defines the card-search operation used by set triangulation.
type Searcher interface {
	SearchByName(ctx context.Context, name string, limit int) (*SearchResponse, error)
}

// Client provides access to the card-search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a card-search client. The API key may be empty; anonymous
// requests work against the public tier with tighter rate limits.
func New(apiKey, baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tcgapi", "new", "card search base url required", nil)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchEnvelope struct {
	Data       []Card `json:"data"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Count      int    `json:"count"`
	TotalCount int    `json:"totalCount"`
}

// SearchByName searches for cards by name, bounded by limit.
func (c *Client) SearchByName(ctx context.Context, name string, limit int) (*SearchResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "tcgapi", "search", "card name must not be empty", nil)
	}
	endpoint, err := url.Parse(c.baseURL + "/cards")
	if err != nil {
		return nil, fmt.Errorf("parse card search url: %w", err)
	}
	params := url.Values{}
	params.Set("q", `name:"`+name+`"`)
	if limit > 0 {
		params.Set("pageSize", strconv.Itoa(limit))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return nil, services.Wrap(marker, "tcgapi", "search", fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalService, "tcgapi", "search", fmt.Sprintf("card search returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrExternalService, "tcgapi", "search", "decode card search response", err)
	}

	quota := quotaFromHeaders(resp.Header)
	result := &SearchResponse{
		Cards:       payload.Data,
		Quota:       quota,
		CreditsUsed: 1,
	}
	return result, nil
}

func quotaFromHeaders(h http.Header) QuotaStatus {
	var q QuotaStatus
	if v := h.Get("X-RateLimit-Limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		q.Remaining, _ = strconv.Atoi(v)
	}
	return q
}
