package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/config"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, "queue.db"))
}

// OpenPath connects to the queue database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NewItemRequest carries the ingestion attributes of a freshly downloaded asset.
type NewItemRequest struct {
	SourcePath   string
	ChildFiles   []string
	OriginSite   string
	MetadataJSON string
	ProjectName  string
	ProjectRoot  string
	ProjectFile  string
}

// NewItem enqueues a downloaded asset for classification and placement.
func (s *Store) NewItem(ctx context.Context, req NewItemRequest) (*Item, error) {
	source := strings.TrimSpace(req.SourcePath)
	if source == "" {
		return nil, fmt.Errorf("source path required")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	childJSON, err := encodeChildFiles(req.ChildFiles)
	if err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_items (
            source_path, child_files, category, origin_site, metadata_json,
            project_name, project_root, project_file,
            status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		source,
		childJSON,
		"unknown",
		nullableString(req.OriginSite),
		nullableString(req.MetadataJSON),
		nullableString(req.ProjectName),
		nullableString(req.ProjectRoot),
		nullableString(req.ProjectFile),
		StatusQueued,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Update persists all mutable fields of an item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return fmt.Errorf("item required")
	}
	childJSON, err := encodeChildFiles(item.ChildFiles)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	err = s.execWithoutResultRetry(
		ctx,
		`UPDATE queue_items SET
            source_path = ?, child_files = ?, category = ?, sub_category = ?,
            sub_category_kind = ?, origin_site = ?, project_name = ?,
            project_root = ?, project_file = ?, target_folder = ?, target_path = ?,
            status = ?, needs_classification = ?, root_approved = ?,
            conflict_policy = ?, error_message = ?, metadata_json = ?, updated_at = ?
         WHERE id = ?`,
		item.SourcePath,
		childJSON,
		item.Category,
		nullableString(item.SubCategory),
		nullableString(string(item.SubCategoryKind)),
		nullableString(item.OriginSite),
		nullableString(item.ProjectName),
		nullableString(item.ProjectRoot),
		nullableString(item.ProjectFile),
		nullableString(item.TargetFolder),
		nullableString(item.TargetPath),
		item.Status,
		boolToInt(item.NeedsClassification),
		boolToInt(item.RootApproved),
		nullableString(string(item.ConflictPolicy)),
		nullableString(item.ErrorMessage),
		nullableString(item.MetadataJSON),
		now.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	item.UpdatedAt = now
	return nil
}

func encodeChildFiles(children []string) (any, error) {
	if len(children) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(children)
	if err != nil {
		return nil, fmt.Errorf("marshal child files: %w", err)
	}
	return string(encoded), nil
}

func decodeChildFiles(raw sql.NullString) ([]string, error) {
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return nil, nil
	}
	var children []string
	if err := json.Unmarshal([]byte(raw.String), &children); err != nil {
		return nil, fmt.Errorf("unmarshal child files: %w", err)
	}
	return children, nil
}
