package classify

import (
	"context"
	"net/url"
	"strings"
)

// provider describes one stock-asset site's naming conventions.
type provider struct {
	site     string
	hosts    []string
	prefixes []string
	// hint is the category the provider predominantly serves, applied
	// only when nothing else decided one.
	hint Category
	// videoPathHint applies for mixed providers whose URLs distinguish
	// video from photo sections.
	videoPathHint bool
}

var providers = []provider{
	{site: "artlist", hosts: []string{"artlist.io"}, hint: CategoryMusic},
	{site: "artgrid", hosts: []string{"artgrid.io"}, hint: CategoryStockFootage},
	{site: "epidemic-sound", hosts: []string{"epidemicsound.com"}, prefixes: []string{"ES_"}, hint: CategoryMusic},
	{site: "motion-array", hosts: []string{"motionarray.com"}, hint: CategoryMotionGraphic},
	{site: "envato", hosts: []string{"elements.envato.com", "envato.com"}},
	{site: "storyblocks", hosts: []string{"storyblocks.com", "videoblocks.com"}, hint: CategoryStockFootage},
	{site: "pexels", hosts: []string{"pexels.com"}, hint: CategoryGraphic, videoPathHint: true},
	{site: "pixabay", hosts: []string{"pixabay.com"}, hint: CategoryGraphic, videoPathHint: true},
}

// Enricher recovers genre/mood and origin-site identity from stock
// provider URL and filename conventions. It supplements existing
// results; its category hint never overrides a decided category.
type Enricher struct {
	vocab *Vocabulary
}

// NewEnricher builds the enrichment tier from a loaded vocabulary.
func NewEnricher(vocab *Vocabulary) *Enricher {
	if vocab == nil {
		vocab = LoadVocabulary()
	}
	return &Enricher{vocab: vocab}
}

func (e *Enricher) Name() string { return "enrich" }

func (e *Enricher) Classify(_ context.Context, req Request) Result {
	result := Result{Source: e.Name()}

	originURL := strings.TrimSpace(req.OriginURL)
	if originURL == "" && req.Metadata != nil {
		originURL = strings.TrimSpace(req.Metadata.OriginURL)
	}

	match := matchProvider(originURL, req.Filename)
	if match == nil {
		return result
	}
	result.OriginSite = match.site
	result.Category = match.categoryHint(originURL)

	// Provider URLs carry genre/mood as path segments, e.g.
	// /royalty-free-music/epic or /music/genre/cinematic.
	for _, segment := range urlSegments(originURL) {
		if result.Genre == "" {
			result.Genre = e.vocab.Genre(segment)
		}
		if result.Mood == "" {
			result.Mood = e.vocab.Mood(segment)
		}
	}
	return result
}

func (p *provider) categoryHint(originURL string) Category {
	if p.videoPathHint && strings.Contains(strings.ToLower(originURL), "/video") {
		return CategoryStockFootage
	}
	return p.hint
}

func matchProvider(originURL, filename string) *provider {
	host := ""
	if originURL != "" {
		if parsed, err := url.Parse(originURL); err == nil {
			host = strings.ToLower(strings.TrimPrefix(parsed.Hostname(), "www."))
		}
	}
	base := strings.TrimSpace(filename)

	for i := range providers {
		p := &providers[i]
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p
			}
		}
		for _, prefix := range p.prefixes {
			if strings.HasPrefix(base, prefix) {
				return p
			}
		}
	}
	return nil
}

func urlSegments(originURL string) []string {
	if originURL == "" {
		return nil
	}
	parsed, err := url.Parse(originURL)
	if err != nil {
		return nil
	}
	raw := strings.Split(parsed.Path, "/")
	segments := make([]string, 0, len(raw))
	for _, segment := range raw {
		segment = strings.ToLower(strings.TrimSpace(segment))
		if segment != "" {
			segments = append(segments, strings.ReplaceAll(segment, "-", ""))
		}
	}
	return segments
}
