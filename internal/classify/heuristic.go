package classify

import (
	"context"
	"path/filepath"
	"strings"
	"unicode"
)

// Heuristic classifies from filename tokens, extension, and any
// metadata already attached to the request. It is pure and always
// available; it declines only when the request carries no input at all.
type Heuristic struct {
	vocab *Vocabulary
}

// NewHeuristic builds the heuristic tier from a loaded vocabulary.
func NewHeuristic(vocab *Vocabulary) *Heuristic {
	if vocab == nil {
		vocab = LoadVocabulary()
	}
	return &Heuristic{vocab: vocab}
}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Classify(_ context.Context, req Request) Result {
	tokens := requestTokens(req)
	if len(tokens) == 0 {
		return Result{Source: h.Name()}
	}

	result := Result{Source: h.Name()}
	for _, token := range tokens {
		if result.Genre == "" {
			result.Genre = h.vocab.Genre(token)
		}
		if result.Mood == "" {
			result.Mood = h.vocab.Mood(token)
		}
		if result.SFXCategory == "" {
			if name, ok := sfxTerms[token]; ok && name != "" {
				result.SFXCategory = name
			}
		}
	}
	if req.Metadata != nil && result.Genre == "" {
		result.Genre = h.vocab.Genre(strings.ToLower(strings.TrimSpace(req.Metadata.Genre)))
	}

	result.Category = h.category(req, tokens, result)
	return result
}

func (h *Heuristic) category(req Request, tokens []string, partial Result) Category {
	ext := strings.ToLower(filepath.Ext(req.Filename))

	if _, ok := motionExts[ext]; ok {
		return CategoryMotionGraphic
	}
	if _, ok := graphicExts[ext]; ok {
		return CategoryGraphic
	}
	if _, ok := videoExts[ext]; ok {
		for _, token := range tokens {
			if _, hit := motionTokens[token]; hit {
				return CategoryMotionGraphic
			}
		}
		return CategoryStockFootage
	}
	if _, ok := audioExts[ext]; ok {
		return h.audioCategory(req, tokens, partial)
	}

	// No recognizable extension: fall back to token signals alone.
	for _, token := range tokens {
		if _, hit := voiceTerms[token]; hit {
			return CategoryVoiceOver
		}
		if _, hit := sfxTerms[token]; hit {
			return CategorySFX
		}
	}
	if partial.Genre != "" || partial.Mood != "" {
		return CategoryMusic
	}
	return CategoryUnknown
}

func (h *Heuristic) audioCategory(req Request, tokens []string, partial Result) Category {
	for _, token := range tokens {
		if _, hit := voiceTerms[token]; hit {
			return CategoryVoiceOver
		}
	}
	for _, token := range tokens {
		if _, hit := sfxTerms[token]; hit {
			return CategorySFX
		}
	}
	if partial.Genre != "" || partial.Mood != "" {
		return CategoryMusic
	}
	if req.Metadata != nil && (req.Metadata.BPM > 0 || strings.TrimSpace(req.Metadata.Key) != "" || strings.TrimSpace(req.Metadata.Artist) != "") {
		return CategoryMusic
	}
	// Plain audio with no other signal is treated as music, the most
	// common download kind.
	return CategoryMusic
}

// requestTokens splits filename and metadata text into lowercase words.
func requestTokens(req Request) []string {
	var sources []string
	if name := strings.TrimSpace(req.Filename); name != "" {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		sources = append(sources, base)
	}
	if req.Metadata != nil {
		sources = append(sources, req.Metadata.Title, req.Metadata.Genre)
		sources = append(sources, req.Metadata.Tags...)
	}

	var tokens []string
	seen := make(map[string]struct{})
	for _, source := range sources {
		for _, token := range splitTokens(source) {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func splitTokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 0 {
			out = append(out, f)
		}
	}
	return out
}
