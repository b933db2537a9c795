package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeWeights()
	c.normalizeScoring()
	c.normalizeBatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.VisionCacheDir) == "" {
		c.Paths.VisionCacheDir = defaultVisionCacheDir
	}
	if c.Paths.VisionCacheDir, err = expandPath(c.Paths.VisionCacheDir); err != nil {
		return fmt.Errorf("paths.vision_cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.FrameSampleInterval <= 0 {
		c.Analysis.FrameSampleInterval = defaultFrameSampleInterval
	}
	if c.Analysis.MaxBadTimestampFraction <= 0 {
		c.Analysis.MaxBadTimestampFraction = defaultMaxBadTimestampFraction
	}
	if c.Analysis.PacingWindowSeconds <= 0 {
		c.Analysis.PacingWindowSeconds = defaultPacingWindowSeconds
	}
	if c.Analysis.WordToleranceSeconds <= 0 {
		c.Analysis.WordToleranceSeconds = defaultWordToleranceSeconds
	}
	if c.Analysis.BrightnessDelta <= 0 {
		c.Analysis.BrightnessDelta = defaultBrightnessDelta
	}
	if c.Analysis.HueDistance <= 0 {
		c.Analysis.HueDistance = defaultHueDistance
	}
	if c.Analysis.MotionDelta <= 0 {
		c.Analysis.MotionDelta = defaultMotionDelta
	}
	if c.Analysis.InterruptWindowSeconds <= 0 {
		c.Analysis.InterruptWindowSeconds = defaultInterruptWindowSeconds
	}
}

// normalizeWeights renormalizes each weight group so it sums to one. Operators
// express relative importance; the scorers assume normalized blends.
func (c *Config) normalizeWeights() {
	normalizeGroup(&c.Weights.Focus, &c.Weights.Authority, &c.Weights.Tribe, &c.Weights.Emotion)
	normalizeGroup(&c.Weights.PreHookStrength, &c.Weights.PreFateCombined, &c.Weights.PrePayloadClarity, &c.Weights.PreCTAClarity)
	normalizeGroup(&c.Weights.PostSize, &c.Weights.PostPlatform, &c.Weights.PostDecay)
}

func normalizeGroup(weights ...*float64) {
	var sum float64
	for _, w := range weights {
		if *w < 0 {
			*w = 0
		}
		sum += *w
	}
	if sum <= 0 {
		equal := 1.0 / float64(len(weights))
		for _, w := range weights {
			*w = equal
		}
		return
	}
	for _, w := range weights {
		*w /= sum
	}
}

func (c *Config) normalizeScoring() {
	if len(c.Scoring.Platforms) == 0 {
		c.Scoring.Platforms = Default().Scoring.Platforms
	}
	normalized := make(map[string]Platform, len(c.Scoring.Platforms))
	for name, platform := range c.Scoring.Platforms {
		normalized[strings.ToLower(strings.TrimSpace(name))] = platform
	}
	c.Scoring.Platforms = normalized
	if len(c.Scoring.DecayBuckets) == 0 {
		c.Scoring.DecayBuckets = Default().Scoring.DecayBuckets
	}
	if c.Scoring.MinPeerSet <= 0 {
		c.Scoring.MinPeerSet = defaultMinPeerSet
	}
	if c.Scoring.MinPatternConfidence <= 0 {
		c.Scoring.MinPatternConfidence = defaultMinPatternConfidence
	}
	if c.Scoring.MinPatternSamples <= 0 {
		c.Scoring.MinPatternSamples = defaultMinPatternSamples
	}
}

func (c *Config) normalizeBatch() {
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = defaultBatchWorkers
	}
	if c.Batch.VisionRatePerSecond <= 0 {
		c.Batch.VisionRatePerSecond = defaultVisionRatePerSecond
	}
	if c.Batch.VisionBurst <= 0 {
		c.Batch.VisionBurst = defaultVisionBurst
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
