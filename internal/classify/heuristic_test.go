package classify

import (
	"context"
	"testing"

	"curator/internal/services/modeld"
)

func TestHeuristicCategories(t *testing.T) {
	h := NewHeuristic(LoadVocabulary())

	cases := []struct {
		name     string
		filename string
		meta     *modeld.Metadata
		want     Category
	}{
		{"sfx by token", "Cinematic_Whoosh_04.wav", nil, CategorySFX},
		{"voiceover by token", "narration_take_02.wav", nil, CategoryVoiceOver},
		{"music by genre token", "Epic_Orchestral_Theme.mp3", nil, CategoryMusic},
		{"music default for audio", "untitled_bounce.wav", nil, CategoryMusic},
		{"graphic by extension", "logo_final.psd", nil, CategoryGraphic},
		{"motion graphic by extension", "lower_thirds_pack.mogrt", nil, CategoryMotionGraphic},
		{"footage by extension", "drone_coastline_4k.mp4", nil, CategoryStockFootage},
		{"motion token on video", "animated_title_intro.mov", nil, CategoryMotionGraphic},
		{"music via metadata artist", "track01.flac", &modeld.Metadata{Artist: "Nova"}, CategoryMusic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := h.Classify(context.Background(), Request{Filename: tc.filename, Metadata: tc.meta})
			if result.Category != tc.want {
				t.Fatalf("got %s, want %s", result.Category, tc.want)
			}
		})
	}
}

func TestHeuristicSubCategories(t *testing.T) {
	h := NewHeuristic(LoadVocabulary())

	result := h.Classify(context.Background(), Request{Filename: "Heavy_Impact_Hit_01.wav"})
	if result.Category != CategorySFX {
		t.Fatalf("category = %s", result.Category)
	}
	if result.SFXCategory != "Impacts" {
		t.Fatalf("sfx category = %q", result.SFXCategory)
	}

	result = h.Classify(context.Background(), Request{Filename: "Dark_Synthwave_Loop.wav"})
	if result.Category != CategoryMusic || result.Mood != "Dark" || result.Genre != "Synthwave" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestHeuristicDeclinesOnEmptyInput(t *testing.T) {
	h := NewHeuristic(LoadVocabulary())
	result := h.Classify(context.Background(), Request{})
	if !result.Declined() {
		t.Fatalf("expected declined result, got %+v", result)
	}
}

func TestHeuristicUnknownWithoutSignals(t *testing.T) {
	h := NewHeuristic(LoadVocabulary())
	result := h.Classify(context.Background(), Request{Filename: "x7f3.bin"})
	if result.Category != CategoryUnknown {
		t.Fatalf("expected unknown for signal-free input, got %s", result.Category)
	}
}
