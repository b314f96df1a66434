package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is the immutable audit entry appended on every terminal transition.
type HistoryRecord struct {
	ID          string
	ItemID      int64
	Category    string
	Status      Status
	ProjectName string
	TargetPath  string
	FileCount   int
	Detail      string
	CreatedAt   time.Time
}

// History returns the most recent records, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, item_id, category, status, project_name, target_path, file_count, detail, created_at
         FROM history_records ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		var (
			rec         HistoryRecord
			projectName sql.NullString
			targetPath  sql.NullString
			detail      sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&rec.ID, &rec.ItemID, &rec.Category, &rec.Status, &projectName, &targetPath, &rec.FileCount, &detail, &createdAt); err != nil {
			return nil, err
		}
		rec.ProjectName = projectName.String
		rec.TargetPath = targetPath.String
		rec.Detail = detail.String
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func insertHistoryTx(ctx context.Context, tx *sql.Tx, item *Item, status Status, fileCount int, detail string) error {
	if fileCount <= 0 {
		fileCount = 1
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO history_records (id, item_id, category, status, project_name, target_path, file_count, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		item.ID,
		item.Category,
		status,
		nullableString(item.ProjectName),
		nullableString(item.TargetPath),
		fileCount,
		nullableString(detail),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append history for item %d: %w", item.ID, err)
	}
	return nil
}
