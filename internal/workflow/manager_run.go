package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"curator/internal/logging"
	"curator/internal/queue"
	"curator/internal/services"
)

func (m *Manager) run(ctx context.Context) {
	m.logger.Info("workflow manager started",
		logging.Duration("poll_interval", m.pollInterval))

	for {
		if ctx.Err() != nil {
			m.logger.Info("workflow manager stopped")
			return
		}

		m.sweepStale(ctx)

		item, err := m.store.NextForStatuses(ctx, queue.StatusQueued, queue.StatusClassified)
		if err != nil {
			m.logger.Error("poll queue", logging.Error(err))
			m.setLastError(err)
			m.waitOrShutdown(ctx, m.errorRetryInterval())
			continue
		}
		if item == nil {
			m.waitOrShutdown(ctx, m.pollInterval)
			continue
		}

		if err := m.processItem(ctx, item); err != nil && !errors.Is(err, context.Canceled) {
			m.waitOrShutdown(ctx, m.errorRetryInterval())
		}
	}
}

func (m *Manager) errorRetryInterval() time.Duration {
	retry := time.Duration(m.cfg.Workflow.ErrorRetryInterval) * time.Second
	if retry <= 0 {
		retry = 10 * time.Second
	}
	return retry
}

// sweepStale enforces the retention window on every poll cycle.
func (m *Manager) sweepStale(ctx context.Context) {
	if m.retention <= 0 {
		return
	}
	removed, err := m.store.ClearStale(ctx, m.retention)
	if err != nil {
		m.logger.Warn("retention sweep failed", logging.Error(err))
		return
	}
	if removed > 0 {
		m.logger.Info("removed stale queue items", logging.Int64("count", removed))
	}
}

func (m *Manager) processItem(ctx context.Context, item *queue.Item) error {
	ps, ok := m.stages[item.Status]
	if !ok {
		m.logger.Warn("no stage configured for status",
			logging.String("status", string(item.Status)))
		m.waitOrShutdown(ctx, m.pollInterval)
		return nil
	}

	requestID := uuid.NewString()
	stageCtx := services.WithRequestID(ctx, requestID)
	stageCtx = services.WithItemID(stageCtx, item.ID)
	stageCtx = services.WithStage(stageCtx, ps.name)
	stageLogger := logging.WithContext(stageCtx, m.logger)

	if aware, ok := ps.handler.(loggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	if err := m.store.Transition(stageCtx, item, item.Status, ps.processingStatus); err != nil {
		if errors.Is(err, queue.ErrConflictingTransition) {
			stageLogger.Debug("item claimed elsewhere", logging.Error(err))
			return nil
		}
		stageLogger.Error("failed to transition item", logging.Error(err))
		m.setLastError(err)
		return err
	}

	return m.executeStage(stageCtx, ps, item)
}

func (m *Manager) executeStage(ctx context.Context, ps pipelineStage, item *queue.Item) error {
	start := time.Now()
	logger := logging.WithContext(ctx, m.logger)
	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("source_path", item.SourcePath))

	if err := ps.handler.Prepare(ctx, item); err != nil {
		m.handleStageFailure(ctx, ps, item, err)
		return err
	}
	if err := m.store.Update(ctx, item); err != nil {
		logger.Error("persist stage preparation", logging.Error(err))
		m.setLastError(err)
		return err
	}

	if err := ps.handler.Execute(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("stage interrupted by shutdown")
			return err
		}
		m.handleStageFailure(ctx, ps, item, err)
		return err
	}

	if item.Status == ps.processingStatus || item.Status == "" {
		item.Status = ps.doneStatus
	}
	if err := m.store.Update(ctx, item); err != nil {
		logger.Error("persist stage result", logging.Error(err))
		m.setLastError(err)
		return err
	}

	m.notifyProgress(ctx, item)
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(item.Status)),
		logging.Duration("stage_duration", time.Since(start)))
	return nil
}

// handleStageFailure lands the item in failed with a history record.
func (m *Manager) handleStageFailure(ctx context.Context, ps pipelineStage, item *queue.Item, cause error) {
	logger := logging.WithContext(ctx, m.logger)
	logger.Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("stage", ps.name),
		logging.Error(cause))
	m.setLastError(cause)

	fileCount := len(item.ChildFiles)
	if fileCount == 0 {
		fileCount = 1
	}
	if err := m.store.Finalize(ctx, item, queue.StatusFailed, fileCount, cause.Error()); err != nil {
		logger.Error("persist stage failure", logging.Error(err))
		return
	}
	if err := m.notifier.NotifyFailed(ctx, filepath.Base(item.SourcePath), cause.Error()); err != nil {
		logger.Warn("failure notification", logging.Error(err))
	}
}

// notifyProgress emits user-facing pushes for the states that need
// human attention or confirm completion.
func (m *Manager) notifyProgress(ctx context.Context, item *queue.Item) {
	logger := logging.WithContext(ctx, m.logger)
	filename := filepath.Base(item.SourcePath)

	var err error
	switch {
	case item.Status == queue.StatusCompleted:
		err = m.notifier.NotifyOrganized(ctx, filename, item.Category, item.TargetPath)
	case item.Status == queue.StatusAwaitingRoot:
		err = m.notifier.NotifyAwaitingDecision(ctx, filename, "project root")
	case item.Status == queue.StatusAwaitingConflict:
		err = m.notifier.NotifyAwaitingDecision(ctx, filename, "conflict")
	case item.Status == queue.StatusAwaitingCategory:
		err = m.notifier.NotifyNeedsClassification(ctx, filename)
	}
	if err != nil {
		logger.Warn("notification", logging.Error(err))
	}
}

func (m *Manager) waitOrShutdown(ctx context.Context, wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
