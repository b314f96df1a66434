package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"curator/internal/logging"
	"curator/internal/thermal"
)

// Strategy is one classification tier. Implementations return a
// declined Result rather than failing the chain.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, req Request) Result
}

// localCompute marks strategies that run the local model and are
// therefore subject to the thermal gate.
type localCompute interface {
	LocalCompute() bool
}

// Chain evaluates strategies in a fixed priority order. The first tier
// that answers with a known category wins; later tiers still contribute
// genre/mood/origin supplements collected along the way.
type Chain struct {
	strategies []Strategy
	gate       *thermal.Gate
	cache      *gocache.Cache
	logger     *slog.Logger
}

// ChainOption adjusts chain construction.
type ChainOption func(*Chain)

// WithThermalGate installs the gate that suppresses local-model tiers.
func WithThermalGate(gate *thermal.Gate) ChainOption {
	return func(c *Chain) { c.gate = gate }
}

// WithResultCache enables TTL caching of chain results keyed by
// filename plus metadata, so duplicate downloads skip the model.
func WithResultCache(ttl time.Duration) ChainOption {
	return func(c *Chain) {
		if ttl > 0 {
			c.cache = gocache.New(ttl, 2*ttl)
		}
	}
}

// NewChain builds a chain over the given strategies, tried in order.
func NewChain(logger *slog.Logger, strategies []Strategy, opts ...ChainOption) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	chain := &Chain{strategies: strategies, logger: logger}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// DefaultStrategies assembles the standard tier order: heuristic,
// optional provider enrichment, then the local model.
func DefaultStrategies(vocab *Vocabulary, enrichment bool, model *Model) []Strategy {
	if vocab == nil {
		vocab = LoadVocabulary()
	}
	strategies := []Strategy{NewHeuristic(vocab)}
	if enrichment {
		strategies = append(strategies, NewEnricher(vocab))
	}
	if model != nil {
		strategies = append(strategies, model)
	}
	return strategies
}

// Classify runs tiers until a category is decided. It never returns an
// error for backend failures; the worst case is an Unknown result.
func (c *Chain) Classify(ctx context.Context, req Request) Result {
	return c.run(ctx, req, false)
}

// ClassifyFull runs every tier regardless of earlier success, merging
// supplements, to recover genre/mood for an already-known category.
func (c *Chain) ClassifyFull(ctx context.Context, req Request) Result {
	return c.run(ctx, req, true)
}

func (c *Chain) run(ctx context.Context, req Request, full bool) Result {
	start := time.Now()

	key := cacheKey(req)
	if c.cache != nil && !full {
		if cached, ok := c.cache.Get(key); ok {
			return cached.(Result)
		}
	}

	throttled := c.gate.Throttled(ctx)
	merged := Result{}
	for _, strategy := range c.strategies {
		if throttled && isLocalCompute(strategy) {
			c.logger.Debug("skipping tier under thermal pressure",
				logging.String("tier", strategy.Name()),
				logging.String("filename", req.Filename))
			continue
		}
		if !full && merged.Category.Known() && isLocalCompute(strategy) {
			break
		}
		merged.merge(strategy.Classify(ctx, req))
	}
	if !merged.Category.Known() {
		merged.Category = CategoryUnknown
	}
	merged.Latency = time.Since(start)

	if c.cache != nil {
		c.cache.Set(key, merged, gocache.DefaultExpiration)
	}
	return merged
}

func isLocalCompute(s Strategy) bool {
	lc, ok := s.(localCompute)
	return ok && lc.LocalCompute()
}

func cacheKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(req.Filename))))
	h.Write([]byte{0})
	h.Write([]byte(req.OriginURL))
	if meta := req.Metadata; meta != nil {
		h.Write([]byte{0})
		h.Write([]byte(meta.Title))
		h.Write([]byte{0})
		h.Write([]byte(meta.Artist))
		h.Write([]byte{0})
		h.Write([]byte(strings.Join(meta.Tags, ",")))
	}
	return hex.EncodeToString(h.Sum(nil))
}
