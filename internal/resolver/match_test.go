package resolver

import "testing"

func TestMatchFuzzyVariants(t *testing.T) {
	m := NewMatcher(3)

	if !m.Match("03_Audio", []string{"Audio", "03_Audio"}) {
		t.Error("03_Audio must match its own variant list")
	}
	if !m.Match("03_Audio", []string{"audio"}) {
		t.Error("03_Audio must match bare lowercase audio")
	}
	if !m.Match("Musik", []string{"03_Audio", "Audio", "Musik"}) {
		t.Error("localized spelling must match")
	}
	if !m.Match("Sound Effects", []string{"Effects"}) {
		t.Error("substring match must be accepted at sufficient length")
	}
}

func TestMatchLengthFloor(t *testing.T) {
	m := NewMatcher(3)
	if m.Match("Au", []string{"Audio"}) {
		t.Error("two-character name must not fuzzy-match Audio")
	}
	// Exact normalized equality is allowed below the floor.
	if !m.Match("VO", []string{"VO"}) {
		t.Error("exact match must win regardless of length")
	}
}

func TestNormalize(t *testing.T) {
	m := NewMatcher(3)
	cases := map[string]string{
		"  03_Audio ": "audio",
		"04-SFX":      "sfx",
		"2. Footage":  "footage",
		"Audio":       "audio",
		"01_":         "01_",
		"MUSIK":       "musik",
	}
	for in, want := range cases {
		if got := m.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
