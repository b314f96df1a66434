package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"curator/internal/classify"
	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/notifications"
	"curator/internal/organizer"
	"curator/internal/queue"
	"curator/internal/services/modelcli"
	"curator/internal/services/modeld"
	"curator/internal/stage"
	"curator/internal/thermal"
)

// pipelineStage binds a trigger status to its handler and the statuses
// the manager moves the item through.
type pipelineStage struct {
	name             string
	handler          stage.Handler
	processingStatus queue.Status
	doneStatus       queue.Status
}

// loggerAware lets stage handlers receive the stage-scoped logger.
type loggerAware interface {
	SetLogger(*slog.Logger)
}

// Manager owns the single processing lane. Items are handled strictly
// sequentially; the queue itself provides the ordering.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	notifier     notifications.Service
	pollInterval time.Duration
	retention    time.Duration
	stages       map[queue.Status]pipelineStage

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
}

// NewManager wires the default stages from configuration.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a manager with a custom notifier
// (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store *queue.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logger,
		notifier:     notifier,
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		retention:    time.Duration(cfg.Organizer.RetentionMinutes) * time.Minute,
		stages:       make(map[queue.Status]pipelineStage),
	}
	if m.pollInterval <= 0 {
		m.pollInterval = 2 * time.Second
	}

	m.RegisterStage("classify", buildClassifierStage(cfg, logger), queue.StatusQueued, queue.StatusClassifying, queue.StatusClassified)
	m.RegisterStage("organize", organizer.NewStage(cfg, store, logger), queue.StatusClassified, queue.StatusProcessing, queue.StatusCompleted)
	return m
}

// RegisterStage installs (or replaces) the handler for a trigger status.
func (m *Manager) RegisterStage(name string, handler stage.Handler, trigger, processing, done queue.Status) {
	m.stages[trigger] = pipelineStage{
		name:             name,
		handler:          handler,
		processingStatus: processing,
		doneStatus:       done,
	}
}

// buildClassifierStage assembles the classification chain from config.
func buildClassifierStage(cfg *config.Config, logger *slog.Logger) *classify.Stage {
	return classify.NewStage(cfg, BuildChain(cfg, logger), logger)
}

// BuildChain wires the full strategy chain from configuration. The CLI
// uses it for one-shot classification outside the queue.
func BuildChain(cfg *config.Config, logger *slog.Logger) *classify.Chain {
	daemon := modeld.NewClient(modeld.Config{
		BaseURL:        cfg.Classifier.DaemonBaseURL,
		HealthTimeout:  time.Duration(cfg.Classifier.HealthTimeoutSeconds) * time.Second,
		HealthCacheTTL: time.Duration(cfg.Classifier.HealthCacheSeconds) * time.Second,
		RequestTimeout: time.Duration(cfg.Classifier.RequestTimeoutSeconds) * time.Second,
	})
	subprocess := modelcli.New(modelcli.Config{
		Runtime:          cfg.Subprocess.Runtime,
		ModelPath:        cfg.Subprocess.ModelPath,
		ModelDownloadURL: cfg.Subprocess.ModelDownloadURL,
		DownloadTimeout:  time.Duration(cfg.Subprocess.DownloadTimeoutSeconds) * time.Second,
		RunTimeout:       time.Duration(cfg.Subprocess.RunTimeoutSeconds) * time.Second,
		MaxTokens:        cfg.Classifier.MaxTokens,
	})
	vocab := classify.LoadVocabulary()
	model := classify.NewModel(daemon, subprocess, cfg.Classifier.MaxTokens, logger)

	return classify.NewChain(
		logger,
		classify.DefaultStrategies(vocab, cfg.Classifier.WebEnrichment, model),
		classify.WithThermalGate(thermal.NewGate(cfg.Thermal, logger)),
		classify.WithResultCache(time.Duration(cfg.Classifier.ResultCacheSeconds)*time.Second),
	)
}

// Start launches the polling loop.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(runCtx)
	}()
}

// Stop cancels the loop and waits for the in-flight item to settle.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}

// Running reports whether the polling loop is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// LastError returns the most recent stage failure, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

// HealthCheck aggregates the health of all registered stages.
func (m *Manager) HealthCheck(ctx context.Context) map[string]stage.Health {
	results := make(map[string]stage.Health, len(m.stages))
	for _, ps := range m.stages {
		results[ps.name] = ps.handler.HealthCheck(ctx)
	}
	return results
}
