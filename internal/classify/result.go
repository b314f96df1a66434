package classify

import (
	"time"

	"curator/internal/services/modeld"
)

// Request carries everything a strategy may inspect for one asset.
type Request struct {
	Filename  string
	OriginURL string
	Metadata  *modeld.Metadata
}

// Result is one strategy's verdict. A zero Category (or Unknown) means
// the strategy declined to answer; supplements may still be present.
type Result struct {
	Category    Category
	Genre       string
	Mood        string
	SFXCategory string
	OriginSite  string
	Source      string
	Err         error
	Latency     time.Duration
}

// Declined reports whether the result carries no usable category.
func (r Result) Declined() bool {
	return !r.Category.Known()
}

// merge fills empty fields of r from other without overriding anything
// already decided. Supplements accumulate across tiers.
func (r *Result) merge(other Result) {
	if r.Declined() && other.Category.Known() {
		r.Category = other.Category
		r.Source = other.Source
	}
	if r.Genre == "" {
		r.Genre = other.Genre
	}
	if r.Mood == "" {
		r.Mood = other.Mood
	}
	if r.SFXCategory == "" {
		r.SFXCategory = other.SFXCategory
	}
	if r.OriginSite == "" {
		r.OriginSite = other.OriginSite
	}
	if r.Err == nil {
		r.Err = other.Err
	}
}

// SubCategory returns the single sub-category value appropriate for the
// resolved category, since genre, mood, and SFX type are mutually
// exclusive downstream.
func (r Result) SubCategory() string {
	switch r.Category {
	case CategorySFX:
		return r.SFXCategory
	case CategoryMusic:
		if r.Mood != "" {
			return r.Mood
		}
		return r.Genre
	default:
		return ""
	}
}
