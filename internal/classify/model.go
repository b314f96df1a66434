package classify

import (
	"context"
	"log/slog"
	"time"

	"curator/internal/logging"
	"curator/internal/services/modeld"
	"curator/internal/services/modelcli"
)

// daemonClassifier is the loopback-daemon surface Model needs.
type daemonClassifier interface {
	Available(ctx context.Context) bool
	Classify(ctx context.Context, req modeld.Request) (*modeld.Response, error)
}

// subprocessClassifier is the one-shot runtime surface Model needs.
type subprocessClassifier interface {
	Available() bool
	Classify(ctx context.Context, filename string, meta *modeld.Metadata) (*modeld.Response, error)
}

// Model routes classification to the local-model daemon, falling back
// to the subprocess runtime only when the daemon is unavailable or its
// call failed. Backend failures degrade to a declined result.
type Model struct {
	daemon     daemonClassifier
	subprocess subprocessClassifier
	maxTokens  int
	logger     *slog.Logger
}

// NewModel builds the local-model tier.
func NewModel(daemon *modeld.Client, subprocess *modelcli.Client, maxTokens int, logger *slog.Logger) *Model {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Model{daemon: daemon, subprocess: subprocess, maxTokens: maxTokens, logger: logger}
}

func (m *Model) Name() string { return "model" }

// LocalCompute marks this tier for thermal gating.
func (m *Model) LocalCompute() bool { return true }

func (m *Model) Classify(ctx context.Context, req Request) Result {
	start := time.Now()

	if m.daemon != nil && m.daemon.Available(ctx) {
		resp, err := m.daemon.Classify(ctx, modeld.Request{
			Filename:  req.Filename,
			MaxTokens: m.maxTokens,
			Metadata:  req.Metadata,
		})
		if err == nil {
			result := fromResponse(resp, "model-daemon")
			result.Latency = time.Since(start)
			return result
		}
		m.logger.Debug("daemon classification failed",
			logging.String("filename", req.Filename),
			logging.Error(err))
	}

	if m.subprocess == nil || !m.subprocess.Available() {
		return Result{Source: m.Name(), Latency: time.Since(start)}
	}
	resp, err := m.subprocess.Classify(ctx, req.Filename, req.Metadata)
	if err != nil {
		m.logger.Debug("subprocess classification failed",
			logging.String("filename", req.Filename),
			logging.Error(err))
		return Result{Source: m.Name(), Latency: time.Since(start)}
	}
	result := fromResponse(resp, "model-subprocess")
	result.Latency = time.Since(start)
	return result
}

func fromResponse(resp *modeld.Response, source string) Result {
	if resp == nil {
		return Result{Source: source}
	}
	result := Result{
		Category: ParseCategory(resp.AssetType),
		Genre:    resp.Genre,
		Mood:     resp.Mood,
		Source:   source,
	}
	if result.Category == CategorySFX && resp.Genre != "" {
		// SFX backends report the effect family in the genre slot.
		result.SFXCategory = resp.Genre
		result.Genre = ""
	}
	return result
}
