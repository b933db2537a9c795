package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.MaxBadTimestampFraction >= 1 {
		return fmt.Errorf("analysis.max_bad_timestamp_fraction must be below 1, got %v", c.Analysis.MaxBadTimestampFraction)
	}
	if c.Analysis.FrameSampleInterval > 1.0 {
		return fmt.Errorf("analysis.frame_sample_interval must be at most 1.0s, got %v", c.Analysis.FrameSampleInterval)
	}
	return nil
}

func (c *Config) validateScoring() error {
	for name, platform := range c.Scoring.Platforms {
		if platform.EngagementRate <= 0 || platform.EngagementRate > 1 {
			return fmt.Errorf("scoring.platforms.%s.engagement_rate must be in (0,1], got %v", name, platform.EngagementRate)
		}
		if platform.ViewsPerThousandFollowers <= 0 {
			return fmt.Errorf("scoring.platforms.%s.views_per_thousand_followers must be positive", name)
		}
	}
	previousMax := 0.0
	for i, bucket := range c.Scoring.DecayBuckets {
		if bucket.Weight <= 0 || bucket.Weight > 1 {
			return fmt.Errorf("scoring.decay_buckets[%d].weight must be in (0,1], got %v", i, bucket.Weight)
		}
		last := i == len(c.Scoring.DecayBuckets)-1
		if last {
			continue
		}
		if bucket.MaxHours <= previousMax {
			return fmt.Errorf("scoring.decay_buckets must have strictly increasing max_hours")
		}
		previousMax = bucket.MaxHours
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers > 64 {
		return fmt.Errorf("batch.workers must be at most 64, got %d", c.Batch.Workers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
