package resolver

import (
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Matcher performs normalized, fuzzy folder-name comparison. Substring
// matches require both sides to reach the minimum length so tiny
// fragments never match real folders.
type Matcher struct {
	minFuzzy int
	folder   cases.Caser
}

// NewMatcher builds a matcher with the given fuzzy-length floor.
func NewMatcher(minFuzzy int) *Matcher {
	if minFuzzy < 2 {
		minFuzzy = 2
	}
	return &Matcher{minFuzzy: minFuzzy, folder: cases.Fold()}
}

// Normalize trims, strips a leading numeric prefix ("03_" style), and
// case-folds the name for comparison.
func (m *Matcher) Normalize(name string) string {
	name = strings.TrimSpace(name)
	name = stripNumericPrefix(name)
	return m.folder.String(name)
}

// Match reports whether an existing folder name matches any variant.
// Exact match after normalization wins; otherwise a substring match in
// either direction is accepted when both names meet the length floor.
func (m *Matcher) Match(existing string, variants []string) bool {
	normalized := m.Normalize(existing)
	if normalized == "" {
		return false
	}
	for _, variant := range variants {
		nv := m.Normalize(variant)
		if nv == "" {
			continue
		}
		if normalized == nv {
			return true
		}
		if utf8.RuneCountInString(normalized) < m.minFuzzy || utf8.RuneCountInString(nv) < m.minFuzzy {
			continue
		}
		if strings.Contains(normalized, nv) || strings.Contains(nv, normalized) {
			return true
		}
	}
	return false
}

// FindChild scans parent's immediate child directories for one that
// matches the variant list.
func (m *Matcher) FindChild(parent string, variants []string) (string, bool) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if m.Match(entry.Name(), variants) {
			return entry.Name(), true
		}
	}
	return "", false
}

// stripNumericPrefix removes a leading run of digits plus its separator.
func stripNumericPrefix(name string) string {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(name) {
		return name
	}
	switch name[i] {
	case '_', '-', '.', ' ':
		rest := strings.TrimLeftFunc(name[i+1:], unicode.IsSpace)
		if rest != "" {
			return rest
		}
	}
	return name
}
