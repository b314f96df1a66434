package classify

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/queue"
	"curator/internal/services/modeld"
	"curator/internal/stage"
)

// Stage runs the classification chain for queued items and writes the
// verdict back onto the item.
type Stage struct {
	cfg    *config.Config
	chain  *Chain
	logger *slog.Logger
}

// NewStage builds the classifier stage handler.
func NewStage(cfg *config.Config, chain *Chain, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stage{cfg: cfg, chain: chain, logger: logger}
}

// SetLogger installs the stage-scoped logger provided by the manager.
func (s *Stage) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *Stage) Prepare(_ context.Context, item *queue.Item) error {
	if item.Category == "" {
		item.Category = string(CategoryUnknown)
	}
	return nil
}

func (s *Stage) Execute(ctx context.Context, item *queue.Item) error {
	req := Request{
		Filename: filepath.Base(item.SourcePath),
		Metadata: decodeMetadata(item.MetadataJSON),
	}
	if req.Metadata != nil {
		req.OriginURL = req.Metadata.OriginURL
	}

	var result Result
	if ParseCategory(item.Category).Known() {
		// Category already decided (manual selection or re-enqueue):
		// run everything to recover the missing sub-category detail.
		result = s.chain.ClassifyFull(ctx, req)
		result.Category = ParseCategory(item.Category)
	} else {
		result = s.chain.Classify(ctx, req)
	}

	s.apply(item, result)

	logger := logging.WithContext(ctx, s.logger)
	logger.Info("classification complete",
		logging.String(logging.FieldCategory, item.Category),
		logging.String("sub_category", item.SubCategory),
		logging.String("origin_site", item.OriginSite),
		logging.String("tier", result.Source),
		logging.Duration("latency", result.Latency),
		logging.Bool("needs_manual", item.NeedsClassification))
	return nil
}

func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if s.chain == nil {
		return stage.Unhealthy("classify", "classification chain not configured")
	}
	return stage.Healthy("classify")
}

// apply writes a chain result onto the queue item, choosing the single
// sub-category slot by category and configuration.
func (s *Stage) apply(item *queue.Item, result Result) {
	item.Category = result.Category.String()
	item.NeedsClassification = !result.Category.Known()
	if item.NeedsClassification {
		// Park the item until someone picks a category; the organizer
		// never sees unknowns.
		item.Status = queue.StatusAwaitingCategory
	}

	switch result.Category {
	case CategorySFX:
		item.SubCategory = result.SFXCategory
		item.SubCategoryKind = queue.SubKindSFX
	case CategoryMusic:
		if strings.EqualFold(s.cfg.Organizer.MusicSubfolderBy, "genre") {
			item.SubCategory = result.Genre
			item.SubCategoryKind = queue.SubKindGenre
		} else {
			item.SubCategory = result.Mood
			item.SubCategoryKind = queue.SubKindMood
			if item.SubCategory == "" && result.Genre != "" {
				item.SubCategory = result.Genre
				item.SubCategoryKind = queue.SubKindGenre
			}
		}
	default:
		item.SubCategory = ""
		item.SubCategoryKind = queue.SubKindNone
	}
	if item.SubCategory == "" {
		item.SubCategoryKind = queue.SubKindNone
	}
	if result.OriginSite != "" && item.OriginSite == "" {
		item.OriginSite = result.OriginSite
	}
}

func decodeMetadata(raw string) *modeld.Metadata {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var meta modeld.Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	return &meta
}
