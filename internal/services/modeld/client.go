// Package modeld wraps the persistent local classification daemon reachable
// over loopback HTTP.
package modeld

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultHealthTimeout  = 1 * time.Second
	defaultRequestTimeout = 30 * time.Second
	defaultHealthCacheTTL = 5 * time.Second
)

// Metadata is the bounded descriptor sent with classification requests.
type Metadata struct {
	Title     string   `json:"title,omitempty"`
	Artist    string   `json:"artist,omitempty"`
	Genre     string   `json:"genre,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Duration  float64  `json:"duration,omitempty"`
	BPM       int      `json:"bpm,omitempty"`
	Key       string   `json:"key,omitempty"`
	OriginURL string   `json:"originUrl,omitempty"`
}

// Request is the payload for POST /classify.
type Request struct {
	Filename  string    `json:"filename"`
	MaxTokens int       `json:"max_tokens"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// Response is the daemon's classification answer.
type Response struct {
	AssetType        string `json:"assetType"`
	Genre            string `json:"genre,omitempty"`
	Mood             string `json:"mood,omitempty"`
	Error            string `json:"error,omitempty"`
	ProcessingTimeMS int64  `json:"processing_time_ms,omitempty"`
}

type healthResponse struct {
	ModelLoaded  bool   `json:"model_loaded"`
	ModelLoading bool   `json:"model_loading"`
	Error        string `json:"error,omitempty"`
}

// Config captures the runtime settings for the daemon client.
type Config struct {
	BaseURL        string
	HealthTimeout  time.Duration
	RequestTimeout time.Duration
	HealthCacheTTL time.Duration
}

// Client talks to the local classification daemon. The health probe result is
// cached for a short window so queue bursts do not probe per item; any
// connection failure invalidates the cache immediately.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu         sync.Mutex
	lastProbe  time.Time
	lastHealth bool
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a daemon client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = defaultHealthTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.HealthCacheTTL <= 0 {
		cfg.HealthCacheTTL = defaultHealthCacheTTL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Available reports whether the daemon is up with a loaded model, consulting
// the cached probe result when it is still fresh.
func (c *Client) Available(ctx context.Context) bool {
	c.mu.Lock()
	if !c.lastProbe.IsZero() && time.Since(c.lastProbe) < c.cfg.HealthCacheTTL {
		cached := c.lastHealth
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	healthy := c.probe(ctx)
	c.mu.Lock()
	c.lastProbe = time.Now()
	c.lastHealth = healthy
	c.mu.Unlock()
	return healthy
}

// Invalidate drops the cached health state, forcing the next Available call
// to probe again.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.lastProbe = time.Time{}
	c.lastHealth = false
	c.mu.Unlock()
}

func (c *Client) probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.ModelLoaded
}

// Classify submits a classification request. Connection failures invalidate
// the health cache; protocol-level failures (non-200, undecodable body) are
// reported as an error the caller degrades on.
func (c *Client) Classify(ctx context.Context, request Request) (*Response, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode classify request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.BaseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.Invalidate()
		return nil, fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classify request: http %d", resp.StatusCode)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}
	return &decoded, nil
}
