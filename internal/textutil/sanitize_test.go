package textutil

import "testing"

func TestSanitizeFolderName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mood/Epic", "Mood-Epic"},
		{"  Hits & Impacts  ", "Hits & Impacts"},
		{"what?", "what"},
		{"a:b*c", "a-b-c"},
		{"Renders...", "Renders"},
		{"Final. ", "Final"},
		{"..", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFolderName(tc.in); got != tc.want {
			t.Errorf("SanitizeFolderName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Epic Trailer", "epic_trailer"},
		{"", "unknown"},
		{"___", "unknown"},
		{"Lo-Fi", "lo-fi"},
	}
	for _, tc := range cases {
		if got := SanitizeToken(tc.in); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
