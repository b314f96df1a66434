package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusQueued           Status = "queued"
	StatusClassifying      Status = "classifying"
	StatusClassified       Status = "classified"
	StatusProcessing       Status = "processing"
	StatusAwaitingCategory Status = "awaiting_category"
	StatusAwaitingRoot     Status = "awaiting_root"
	StatusAwaitingConflict Status = "awaiting_conflict"
	StatusCompleted        Status = "completed"
	StatusFailed           Status = "failed"
	StatusSkipped          Status = "skipped"
)

// DaemonStopReason is the error message set when items are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusQueued,
	StatusClassifying,
	StatusClassified,
	StatusProcessing,
	StatusAwaitingCategory,
	StatusAwaitingRoot,
	StatusAwaitingConflict,
	StatusCompleted,
	StatusFailed,
	StatusSkipped,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusClassifying: {},
	StatusProcessing:  {},
}

var terminalStatuses = map[Status]struct{}{
	StatusCompleted: {},
	StatusFailed:    {},
	StatusSkipped:   {},
}

var pendingDecisionStatuses = map[Status]struct{}{
	StatusAwaitingCategory: {},
	StatusAwaitingRoot:     {},
	StatusAwaitingConflict: {},
}

// ConflictPolicy records the user's answer to a destination conflict.
type ConflictPolicy string

const (
	ConflictUnset     ConflictPolicy = ""
	ConflictOverwrite ConflictPolicy = "overwrite"
	ConflictVersion   ConflictPolicy = "version"
)

// SubCategoryKind distinguishes what an item's sub-category value means.
type SubCategoryKind string

const (
	SubKindNone  SubCategoryKind = ""
	SubKindGenre SubCategoryKind = "genre"
	SubKindMood  SubCategoryKind = "mood"
	SubKindSFX   SubCategoryKind = "sfx"
)

// Item represents a queued asset persisted in SQLite.
type Item struct {
	ID                  int64
	SourcePath          string
	ChildFiles          []string
	Category            string
	SubCategory         string
	SubCategoryKind     SubCategoryKind
	OriginSite          string
	ProjectName         string
	ProjectRoot         string
	ProjectFile         string
	TargetFolder        string
	TargetPath          string
	Status              Status
	NeedsClassification bool
	RootApproved        bool
	ConflictPolicy      ConflictPolicy
	ErrorMessage        string
	MetadataJSON        string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Queued     int
	Processing int
	Waiting    int
	Completed  int
	Failed     int
	Skipped    int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status is final.
func IsTerminal(status Status) bool {
	_, ok := terminalStatuses[status]
	return ok
}

// IsPendingDecision reports whether a status is suspended on a human decision.
func IsPendingDecision(status Status) bool {
	_, ok := pendingDecisionStatuses[status]
	return ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// IsTerminal reports whether the item reached a final state.
func (i Item) IsTerminal() bool {
	return IsTerminal(i.Status)
}

// IsFolder reports whether the item represents a downloaded folder of files.
func (i Item) IsFolder() bool {
	return len(i.ChildFiles) > 0
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
}

// DisplayName returns a short human-readable label for the item.
func (i Item) DisplayName() string {
	path := strings.TrimRight(strings.TrimSpace(i.SourcePath), "/")
	if path == "" {
		return "(unknown)"
	}
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
