package queue

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrConflictingTransition indicates a compare-and-set status transition lost
// to a concurrent writer.
var ErrConflictingTransition = errors.New("queue item status changed concurrently")

// Transition moves an item from one status to another atomically. The item's
// in-memory status is updated on success.
func (s *Store) Transition(ctx context.Context, item *Item, from, to Status) error {
	if item == nil {
		return fmt.Errorf("item required")
	}
	now := time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, now.Format(time.RFC3339Nano), item.ID, from,
	)
	if err != nil {
		return fmt.Errorf("transition item %d to %s: %w", item.ID, to, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transition rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: item %d not in %s", ErrConflictingTransition, item.ID, from)
	}
	item.Status = to
	item.UpdatedAt = now
	return nil
}

// Finalize lands a terminal status and appends the matching history record in
// a single transaction. Items already terminal are left untouched, keeping the
// history exactly-once guarantee.
func (s *Store) Finalize(ctx context.Context, item *Item, status Status, fileCount int, detail string) error {
	if item == nil {
		return fmt.Errorf("item required")
	}
	if !IsTerminal(status) {
		return fmt.Errorf("finalize requires a terminal status, got %s", status)
	}

	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin finalize tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx,
			`UPDATE queue_items SET status = ?, target_path = ?, error_message = ?, updated_at = ?
             WHERE id = ? AND status NOT IN (?, ?, ?)`,
			status,
			nullableString(item.TargetPath),
			nullableString(detail),
			now.Format(time.RFC3339Nano),
			item.ID,
			StatusCompleted, StatusFailed, StatusSkipped,
		)
		if err != nil {
			return fmt.Errorf("finalize item %d: %w", item.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("finalize rows affected: %w", err)
		}
		if affected == 0 {
			// Already terminal; a history record exists.
			return tx.Rollback()
		}

		if err := insertHistoryTx(ctx, tx, item, status, fileCount, detail); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit finalize: %w", err)
		}
		item.Status = status
		item.ErrorMessage = detail
		item.UpdatedAt = now
		return nil
	})
}

// RootDecision captures the user's answer to an unknown-root prompt.
type RootDecision string

const (
	RootApproveRemember RootDecision = "approve_remember"
	RootApproveOnce     RootDecision = "approve_once"
	RootCancel          RootDecision = "cancel"
)

// ResolveRoot applies an unknown-root decision to a suspended item.
func (s *Store) ResolveRoot(ctx context.Context, id int64, decision RootDecision) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d not found", id)
	}
	if item.Status != StatusAwaitingRoot {
		return fmt.Errorf("item %d is not awaiting a root decision (status %s)", id, item.Status)
	}

	switch decision {
	case RootApproveRemember:
		if item.ProjectRoot != "" {
			if err := s.ApproveRoot(ctx, item.ProjectRoot); err != nil {
				return err
			}
		}
		fallthrough
	case RootApproveOnce:
		item.RootApproved = true
		item.Status = StatusClassified
		return s.Update(ctx, item)
	case RootCancel:
		return s.Finalize(ctx, item, StatusSkipped, len(item.ChildFiles), "unknown root declined")
	default:
		return fmt.Errorf("unknown root decision %q", decision)
	}
}

// ResolveCategory applies a manual category choice to an item suspended
// on classification. An empty category skips the item.
func (s *Store) ResolveCategory(ctx context.Context, id int64, category, subCategory string, kind SubCategoryKind) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d not found", id)
	}
	if item.Status != StatusAwaitingCategory {
		return fmt.Errorf("item %d is not awaiting a category decision (status %s)", id, item.Status)
	}

	if category == "" {
		return s.Finalize(ctx, item, StatusSkipped, len(item.ChildFiles), "manual classification declined")
	}
	item.Category = category
	item.SubCategory = subCategory
	item.SubCategoryKind = kind
	item.NeedsClassification = false
	item.Status = StatusClassified
	return s.Update(ctx, item)
}

// ConflictDecision captures the user's answer to a destination conflict prompt.
type ConflictDecision string

const (
	ConflictDecideOverwrite ConflictDecision = "overwrite"
	ConflictDecideVersion   ConflictDecision = "version"
	ConflictDecideSkip      ConflictDecision = "skip"
)

// ResolveConflict applies a conflict decision to a suspended item.
func (s *Store) ResolveConflict(ctx context.Context, id int64, decision ConflictDecision) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d not found", id)
	}
	if item.Status != StatusAwaitingConflict {
		return fmt.Errorf("item %d is not awaiting a conflict decision (status %s)", id, item.Status)
	}

	switch decision {
	case ConflictDecideOverwrite:
		item.ConflictPolicy = ConflictOverwrite
	case ConflictDecideVersion:
		item.ConflictPolicy = ConflictVersion
	case ConflictDecideSkip:
		return s.Finalize(ctx, item, StatusSkipped, len(item.ChildFiles), "destination conflict skipped")
	default:
		return fmt.Errorf("unknown conflict decision %q", decision)
	}
	item.Status = StatusClassified
	return s.Update(ctx, item)
}

// ApproveRoot records a project root as permanently accepted.
func (s *Store) ApproveRoot(ctx context.Context, root string) error {
	if err := s.execWithoutResultRetry(ctx,
		`INSERT INTO approved_roots (root, created_at) VALUES (?, ?)
         ON CONFLICT(root) DO NOTHING`,
		root, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("approve root %s: %w", root, err)
	}
	return nil
}

// IsRootApproved reports whether a root was previously accepted with "remember".
func (s *Store) IsRootApproved(ctx context.Context, root string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM approved_roots WHERE root = ?`, root,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("check approved root: %w", err)
	}
	return count > 0, nil
}

// FailInFlight marks all in-flight items failed, used on daemon shutdown.
// Each item is finalized individually so every failure gets a history row.
func (s *Store) FailInFlight(ctx context.Context, reason string) (int64, error) {
	items, err := s.ItemsByStatus(ctx, StatusClassifying, StatusProcessing)
	if err != nil {
		return 0, err
	}
	var failed int64
	for _, item := range items {
		if err := s.Finalize(ctx, item, StatusFailed, len(item.ChildFiles), reason); err != nil {
			return failed, err
		}
		failed++
	}
	return failed, nil
}
