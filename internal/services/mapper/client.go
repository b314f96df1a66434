// Package mapper talks to the external template-analysis service that
// maps a scanned folder tree onto asset-category destinations.
package mapper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"curator/internal/services"
)

// AnalyzeRequest is the wire payload sent to the analysis endpoint. Tree
// carries the caller's folder snapshot as-is.
type AnalyzeRequest struct {
	DeviceID string `json:"device_id"`
	Tree     any    `json:"folder_tree"`
}

// AnalyzeResponse is the service's category-to-path verdict.
type AnalyzeResponse struct {
	Paths     map[string]string `json:"paths"`
	Rationale string            `json:"rationale"`
	Error     string            `json:"error,omitempty"`
}

// Config carries the analysis service settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a thin HTTP client for the analysis service. Errors are
// surfaced verbatim to the caller; there is no retry here.
type Client struct {
	cfg  Config
	http *http.Client
}

// Option adjusts client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New builds a client for the configured analysis service.
func New(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	client := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether an analysis endpoint was set.
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != ""
}

// Analyze submits a folder tree and returns the service's category mapping.
func (c *Client) Analyze(ctx context.Context, tree any, deviceID string) (*AnalyzeResponse, error) {
	if !c.Configured() {
		return nil, services.Wrap(services.ErrConfiguration, "template", "analyze",
			"mapper base URL not configured", nil)
	}

	body, err := json.Marshal(AnalyzeRequest{DeviceID: deviceID, Tree: tree})
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "template", "analyze",
			"encode folder tree", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "template", "analyze",
			"build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "template", "analyze",
			"analysis service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrExternalTool, "template", "analyze",
			fmt.Sprintf("analysis service returned http %d", resp.StatusCode), nil)
	}

	var decoded AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "template", "analyze",
			"decode analysis response", err)
	}
	if decoded.Error != "" {
		return nil, services.Wrap(services.ErrExternalTool, "template", "analyze",
			decoded.Error, nil)
	}
	if len(decoded.Paths) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "template", "analyze",
			"analysis response contained no category paths", nil)
	}
	return &decoded, nil
}
