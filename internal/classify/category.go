// Package classify implements the multi-strategy asset classification
// chain: filename heuristics, provider enrichment, and local-model
// backends with thermal gating.
package classify

import "strings"

// Category identifies the asset kind an item was classified as.
type Category string

const (
	CategoryMusic         Category = "music"
	CategorySFX           Category = "sfx"
	CategoryVoiceOver     Category = "voiceover"
	CategoryMotionGraphic Category = "motion_graphic"
	CategoryGraphic       Category = "graphic"
	CategoryStockFootage  Category = "stock_footage"
	CategoryUnknown       Category = "unknown"
)

// Categories lists the known (non-Unknown) asset categories.
func Categories() []Category {
	return []Category{
		CategoryMusic,
		CategorySFX,
		CategoryVoiceOver,
		CategoryMotionGraphic,
		CategoryGraphic,
		CategoryStockFootage,
	}
}

// Known reports whether the category is a concrete asset kind.
func (c Category) Known() bool {
	switch c {
	case CategoryMusic, CategorySFX, CategoryVoiceOver, CategoryMotionGraphic, CategoryGraphic, CategoryStockFootage:
		return true
	}
	return false
}

func (c Category) String() string {
	if c == "" {
		return string(CategoryUnknown)
	}
	return string(c)
}

// Label returns a human-facing name for CLI tables and notifications.
func (c Category) Label() string {
	switch c {
	case CategoryMusic:
		return "Music"
	case CategorySFX:
		return "SFX"
	case CategoryVoiceOver:
		return "Voice Over"
	case CategoryMotionGraphic:
		return "Motion Graphic"
	case CategoryGraphic:
		return "Graphic"
	case CategoryStockFootage:
		return "Stock Footage"
	default:
		return "Unknown"
	}
}

// ParseCategory maps free-form category spellings, including the model
// backends' camel-case names, onto the canonical enum.
func ParseCategory(raw string) Category {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").Replace(normalized)
	switch normalized {
	case "music", "song", "track", "audiotrack":
		return CategoryMusic
	case "sfx", "soundeffect", "soundeffects", "soundfx", "fx":
		return CategorySFX
	case "voiceover", "vo", "voice", "narration", "dialogue", "speech":
		return CategoryVoiceOver
	case "motiongraphic", "motiongraphics", "mogrt", "animation", "template":
		return CategoryMotionGraphic
	case "graphic", "graphics", "image", "photo", "picture", "still":
		return CategoryGraphic
	case "stockfootage", "footage", "video", "videoclip", "broll":
		return CategoryStockFootage
	default:
		return CategoryUnknown
	}
}
