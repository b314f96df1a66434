package template

import (
	"strings"
	"time"

	"curator/internal/classify"
)

// CategoryMapping assigns each asset category an optional relative
// path inside a scanned folder tree.
type CategoryMapping struct {
	Paths      map[classify.Category]string `json:"paths"`
	Rationale  string                       `json:"rationale,omitempty"`
	AnalyzedAt time.Time                    `json:"analyzedAt"`
}

// PathFor returns the slash-separated relative path mapped to the
// category, or "" when the category has no mapping.
func (m CategoryMapping) PathFor(category classify.Category) string {
	if m.Paths == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m.Paths[category]), "/")
}

// mappingFromWire converts the analysis service's string-keyed paths,
// dropping categories it does not recognize.
func mappingFromWire(paths map[string]string, rationale string, at time.Time) CategoryMapping {
	mapping := CategoryMapping{
		Paths:      make(map[classify.Category]string, len(paths)),
		Rationale:  rationale,
		AnalyzedAt: at,
	}
	for raw, rel := range paths {
		category := classify.ParseCategory(raw)
		if !category.Known() || strings.TrimSpace(rel) == "" {
			continue
		}
		mapping.Paths[category] = strings.Trim(strings.TrimSpace(rel), "/")
	}
	return mapping
}
