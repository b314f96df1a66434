package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const itemColumns = `id, source_path, child_files, category, sub_category,
    sub_category_kind, origin_site, project_name, project_root, project_file,
    target_folder, target_path, status, needs_classification, root_approved,
    conflict_policy, error_message, metadata_json, created_at, updated_at`

func scanItem(scanner interface{ Scan(...any) error }) (*Item, error) {
	var (
		item            Item
		childFiles      sql.NullString
		subCategory     sql.NullString
		subCategoryKind sql.NullString
		originSite      sql.NullString
		projectName     sql.NullString
		projectRoot     sql.NullString
		projectFile     sql.NullString
		targetFolder    sql.NullString
		targetPath      sql.NullString
		needsClass      int
		rootApproved    int
		conflictPolicy  sql.NullString
		errorMessage    sql.NullString
		metadataJSON    sql.NullString
		createdAt       string
		updatedAt       string
	)
	if err := scanner.Scan(
		&item.ID,
		&item.SourcePath,
		&childFiles,
		&item.Category,
		&subCategory,
		&subCategoryKind,
		&originSite,
		&projectName,
		&projectRoot,
		&projectFile,
		&targetFolder,
		&targetPath,
		&item.Status,
		&needsClass,
		&rootApproved,
		&conflictPolicy,
		&errorMessage,
		&metadataJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	children, err := decodeChildFiles(childFiles)
	if err != nil {
		return nil, err
	}
	item.ChildFiles = children
	item.SubCategory = subCategory.String
	item.SubCategoryKind = SubCategoryKind(subCategoryKind.String)
	item.OriginSite = originSite.String
	item.ProjectName = projectName.String
	item.ProjectRoot = projectRoot.String
	item.ProjectFile = projectFile.String
	item.TargetFolder = targetFolder.String
	item.TargetPath = targetPath.String
	item.NeedsClassification = needsClass != 0
	item.RootApproved = rootApproved != 0
	item.ConflictPolicy = ConflictPolicy(conflictPolicy.String)
	item.ErrorMessage = errorMessage.String
	item.MetadataJSON = metadataJSON.String
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	return &item, nil
}

// GetByID fetches one item.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return item, nil
}

// List returns all items ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM queue_items ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ItemsByStatus returns items currently in any of the provided statuses.
func (s *Store) ItemsByStatus(ctx context.Context, statuses ...Status) ([]*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM queue_items WHERE status IN (` +
		placeholders(len(statuses)) + `) ORDER BY created_at ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, query, statusArgs(statuses)...)
	if err != nil {
		return nil, fmt.Errorf("items by status: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// NextForStatuses returns the oldest item whose status matches, or nil.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM queue_items WHERE status IN (` +
		placeholders(len(statuses)) + `) ORDER BY created_at ASC, id ASC LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, statusArgs(statuses)...)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next item: %w", err)
	}
	return item, nil
}

// Remove deletes a single item.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if err := s.execWithoutResultRetry(ctx, `DELETE FROM queue_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove item %d: %w", id, err)
	}
	return nil
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func statusArgs(statuses []Status) []any {
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}
	return args
}
