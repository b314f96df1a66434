package classify

import (
	_ "embed"
	"encoding/json"
	"strings"
)

//go:embed genres.json
var genresRaw []byte

//go:embed moods.json
var moodsRaw []byte

// Fallbacks cover the case where the bundled resource fails to parse.
var (
	fallbackGenres = []string{"ambient", "cinematic", "electronic", "hiphop", "jazz", "orchestral", "pop", "rock"}
	fallbackMoods  = []string{"calm", "dark", "dramatic", "energetic", "epic", "happy", "sad", "uplifting"}
)

// sfxTerms maps tokens that identify sound effects to a display name
// used as the SFX sub-category.
var sfxTerms = map[string]string{
	"sfx":        "",
	"foley":      "Foley",
	"whoosh":     "Whooshes",
	"swoosh":     "Whooshes",
	"impact":     "Impacts",
	"impacts":    "Impacts",
	"hit":        "Impacts",
	"braam":      "Braams",
	"riser":      "Risers",
	"rise":       "Risers",
	"stinger":    "Stingers",
	"transition": "Transitions",
	"glitch":     "Glitches",
	"ambience":   "Ambience",
	"atmos":      "Ambience",
	"drone":      "Drones",
	"footstep":   "Foley",
	"footsteps":  "Foley",
	"ui":         "UI",
	"click":      "UI",
}

var voiceTerms = map[string]struct{}{
	"vo":        {},
	"voiceover": {},
	"voice":     {},
	"narration": {},
	"narrator":  {},
	"dialogue":  {},
	"dialog":    {},
	"speech":    {},
	"podcast":   {},
}

// motionTokens mark video or project files that are animated templates
// rather than raw footage.
var motionTokens = map[string]struct{}{
	"mogrt":      {},
	"animated":   {},
	"animation":  {},
	"title":      {},
	"titles":     {},
	"lower":      {},
	"third":      {},
	"thirds":     {},
	"overlay":    {},
	"transition": {},
	"intro":      {},
	"outro":      {},
}

var (
	audioExts = map[string]struct{}{
		".wav": {}, ".mp3": {}, ".aif": {}, ".aiff": {}, ".flac": {}, ".ogg": {}, ".m4a": {},
	}
	videoExts = map[string]struct{}{
		".mp4": {}, ".mov": {}, ".mxf": {}, ".avi": {}, ".webm": {}, ".m4v": {},
	}
	graphicExts = map[string]struct{}{
		".png": {}, ".jpg": {}, ".jpeg": {}, ".psd": {}, ".ai": {}, ".svg": {},
		".eps": {}, ".tif": {}, ".tiff": {}, ".webp": {}, ".gif": {},
	}
	motionExts = map[string]struct{}{
		".mogrt": {}, ".aep": {}, ".aegraphic": {},
	}
)

// Vocabulary holds the genre and mood term lists used by the heuristic
// and enrichment tiers.
type Vocabulary struct {
	genres map[string]string
	moods  map[string]string
}

// LoadVocabulary parses the bundled term lists, falling back to the
// built-in defaults when a resource is missing or malformed.
func LoadVocabulary() *Vocabulary {
	return &Vocabulary{
		genres: termIndex(loadTerms(genresRaw, fallbackGenres)),
		moods:  termIndex(loadTerms(moodsRaw, fallbackMoods)),
	}
}

func loadTerms(raw []byte, fallback []string) []string {
	var terms []string
	if err := json.Unmarshal(raw, &terms); err != nil || len(terms) == 0 {
		return fallback
	}
	return terms
}

// termIndex maps a lowercase token to its display form.
func termIndex(terms []string) map[string]string {
	index := make(map[string]string, len(terms))
	for _, term := range terms {
		token := strings.ToLower(strings.TrimSpace(term))
		if token == "" {
			continue
		}
		index[token] = titleCase(token)
	}
	return index
}

// Genre returns the display form of a genre token, or "".
func (v *Vocabulary) Genre(token string) string {
	return v.genres[strings.ToLower(token)]
}

// Mood returns the display form of a mood token, or "".
func (v *Vocabulary) Mood(token string) string {
	return v.moods[strings.ToLower(token)]
}

func titleCase(token string) string {
	if token == "" {
		return ""
	}
	return strings.ToUpper(token[:1]) + token[1:]
}
