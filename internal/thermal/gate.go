// Package thermal implements the resource gate that suppresses local-model
// classification work while the host runs hot.
package thermal

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"

	"curator/internal/config"
	"curator/internal/logging"
)

// Sampler reads the host's thermal and load state. Swapped out in tests.
type Sampler interface {
	Temperature(ctx context.Context) (float64, error)
	LoadRatio(ctx context.Context) (float64, error)
}

// Gate tracks sustained thermal pressure. Reads are lock-free in spirit: a
// stale answer only costs one redundant sample, never correctness.
type Gate struct {
	cfg     config.Thermal
	sampler Sampler
	logger  *slog.Logger

	mu         sync.Mutex
	lastSample time.Time
	hotStreak  int
	throttled  bool
}

// NewGate builds a gate from configuration using the host sampler.
func NewGate(cfg config.Thermal, logger *slog.Logger) *Gate {
	return NewGateWithSampler(cfg, logger, hostSampler{})
}

// NewGateWithSampler allows injecting a sampler (used in tests).
func NewGateWithSampler(cfg config.Thermal, logger *slog.Logger, sampler Sampler) *Gate {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Gate{cfg: cfg, sampler: sampler, logger: logger.With(logging.String(logging.FieldComponent, "thermal"))}
}

// Throttled reports whether expensive classification tiers should be skipped.
// Samples are taken at most once per configured interval; pressure must be
// sustained across the configured number of samples before the gate closes.
func (g *Gate) Throttled(ctx context.Context) bool {
	if g == nil || !g.cfg.Enabled {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	interval := time.Duration(g.cfg.SampleSeconds) * time.Second
	if !g.lastSample.IsZero() && time.Since(g.lastSample) < interval {
		return g.throttled
	}
	g.lastSample = time.Now()

	hot := g.sampleLocked(ctx)
	if hot {
		g.hotStreak++
	} else {
		g.hotStreak = 0
	}

	wasThrottled := g.throttled
	g.throttled = g.hotStreak >= g.cfg.SustainedSamples
	if g.throttled && !wasThrottled {
		g.logger.Warn("thermal gate closed; skipping local-model classification tiers",
			logging.Int("hot_samples", g.hotStreak))
	} else if !g.throttled && wasThrottled {
		g.logger.Info("thermal gate reopened")
	}
	return g.throttled
}

func (g *Gate) sampleLocked(ctx context.Context) bool {
	temp, err := g.sampler.Temperature(ctx)
	if err == nil && temp >= g.cfg.MaxCelsius {
		g.logger.Debug("temperature above threshold",
			logging.Float64("celsius", temp),
			logging.Float64("max", g.cfg.MaxCelsius))
		return true
	}
	load, err := g.sampler.LoadRatio(ctx)
	if err == nil && load >= g.cfg.MaxLoadRatio {
		g.logger.Debug("load above threshold",
			logging.Float64("ratio", load),
			logging.Float64("max", g.cfg.MaxLoadRatio))
		return true
	}
	return false
}

type hostSampler struct{}

func (hostSampler) Temperature(ctx context.Context) (float64, error) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil {
		return 0, err
	}
	max := 0.0
	for _, sensor := range temps {
		key := strings.ToLower(sensor.SensorKey)
		if !strings.Contains(key, "cpu") && !strings.Contains(key, "core") && !strings.Contains(key, "package") {
			continue
		}
		if sensor.Temperature > max {
			max = sensor.Temperature
		}
	}
	return max, nil
}

func (hostSampler) LoadRatio(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(percents) == 0 {
		return 0, err
	}
	return percents[0] / 100, nil
}
