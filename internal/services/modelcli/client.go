// Package modelcli runs the local classification model through a
// command-line runtime when the loopback daemon is unavailable.
package modelcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"curator/internal/deps"
	"curator/internal/services"
	"curator/internal/services/modeld"
)

// commandContext is swapped out in tests.
var commandContext = exec.CommandContext

// Config carries the subprocess runner settings.
type Config struct {
	Runtime          string
	ModelPath        string
	ModelDownloadURL string
	DownloadTimeout  time.Duration
	RunTimeout       time.Duration
	MaxTokens        int
}

// Client invokes the model runtime as a one-shot subprocess.
type Client struct {
	cfg Config
}

// New returns a subprocess client for the configured runtime.
func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Available reports whether the runtime binary can be found. The model
// artifact is ensured lazily inside Classify so a missing download does
// not mark the tier unavailable up front.
func (c *Client) Available() bool {
	return deps.RuntimeAvailable(c.cfg.Runtime)
}

// Classify runs the runtime against a single filename plus optional
// metadata and parses the JSON object from its output.
func (c *Client) Classify(ctx context.Context, filename string, meta *modeld.Metadata) (*modeld.Response, error) {
	if !c.Available() {
		return nil, services.Wrap(services.ErrExternalTool, "classify", "model-run",
			fmt.Sprintf("runtime %q not found", c.cfg.Runtime), nil)
	}
	if err := deps.EnsureModel(ctx, c.cfg.ModelPath, c.cfg.ModelDownloadURL, c.cfg.DownloadTimeout); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "classify", "model-download",
			"model artifact unavailable", err)
	}

	metaJSON := "{}"
	if meta != nil {
		encoded, err := json.Marshal(meta)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "classify", "model-run",
				"encode metadata", err)
		}
		metaJSON = string(encoded)
	}

	runCtx := ctx
	if c.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.cfg.RunTimeout)
		defer cancel()
	}

	args := []string{
		"--model-path", c.cfg.ModelPath,
		"--filename", filename,
		"--metadata", metaJSON,
		"--max-tokens", strconv.Itoa(c.cfg.MaxTokens),
	}
	cmd := commandContext(runCtx, c.cfg.Runtime, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, services.Wrap(services.ErrTimeout, "classify", "model-run",
				fmt.Sprintf("runtime exceeded %s", c.cfg.RunTimeout), err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "classify", "model-run",
			trimOutput(output.String()), err)
	}

	payload, err := ExtractJSON(output.String())
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "classify", "model-run",
			"no JSON object in runtime output", err)
	}

	var resp modeld.Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "classify", "model-run",
			"decode runtime output", err)
	}
	if resp.Error != "" {
		return nil, services.Wrap(services.ErrExternalTool, "classify", "model-run", resp.Error, nil)
	}
	return &resp, nil
}

func trimOutput(s string) string {
	const max = 512
	if len(s) > max {
		return s[:max]
	}
	return s
}
