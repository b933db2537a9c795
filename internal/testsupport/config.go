package testsupport

import (
	"path/filepath"
	"testing"

	"reelscore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.VisionCacheDir = filepath.Join(base, "vision-cache")
	cfg.Batch.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkers overrides the batch worker count on the test config.
func WithWorkers(workers int) ConfigOption {
	return func(c *config.Config) {
		c.Batch.Workers = workers
	}
}

// WithVisionRate overrides the shared vision-call rate limit.
func WithVisionRate(perSecond float64, burst int) ConfigOption {
	return func(c *config.Config) {
		c.Batch.VisionRatePerSecond = perSecond
		c.Batch.VisionBurst = burst
	}
}
