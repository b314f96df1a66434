package classify

import (
	"context"
	"testing"
)

func TestEnricherRecognizesProviders(t *testing.T) {
	e := NewEnricher(LoadVocabulary())

	cases := []struct {
		name     string
		filename string
		origin   string
		wantSite string
		wantCat  Category
	}{
		{"artlist by host", "Horizon.wav", "https://artlist.io/royalty-free-music/song/horizon/123", "artlist", CategoryMusic},
		{"artgrid footage", "clip.mp4", "https://artgrid.io/clip/456", "artgrid", CategoryStockFootage},
		{"epidemic by filename prefix", "ES_Night Drive - STRLGHT.mp3", "", "epidemic-sound", CategoryMusic},
		{"storyblocks", "city.mp4", "https://www.storyblocks.com/video/stock/city", "storyblocks", CategoryStockFootage},
		{"pexels photo", "beach.jpg", "https://www.pexels.com/photo/beach-123/", "pexels", CategoryGraphic},
		{"pexels video section", "beach.mp4", "https://www.pexels.com/video/waves-456/", "pexels", CategoryStockFootage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := e.Classify(context.Background(), Request{Filename: tc.filename, OriginURL: tc.origin})
			if result.OriginSite != tc.wantSite {
				t.Fatalf("origin site = %q, want %q", result.OriginSite, tc.wantSite)
			}
			if result.Category != tc.wantCat {
				t.Fatalf("category = %s, want %s", result.Category, tc.wantCat)
			}
		})
	}
}

func TestEnricherRecoversGenreFromURL(t *testing.T) {
	e := NewEnricher(LoadVocabulary())
	result := e.Classify(context.Background(), Request{
		Filename:  "track.mp3",
		OriginURL: "https://artlist.io/royalty-free-music/hip-hop/epic",
	})
	if result.Genre != "Hiphop" {
		t.Fatalf("genre = %q", result.Genre)
	}
	if result.Mood != "Epic" {
		t.Fatalf("mood = %q", result.Mood)
	}
}

func TestEnricherDeclinesUnknownOrigin(t *testing.T) {
	e := NewEnricher(LoadVocabulary())
	result := e.Classify(context.Background(), Request{
		Filename:  "file.wav",
		OriginURL: "https://example.com/file.wav",
	})
	if result.OriginSite != "" || !result.Declined() {
		t.Fatalf("expected declined result for unknown origin, got %+v", result)
	}
}
