package config

const (
	defaultDataDir        = "~/.local/share/reelscore"
	defaultLogDir         = "~/.local/share/reelscore/logs"
	defaultVisionCacheDir = "~/.cache/reelscore/vision"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	defaultFrameSampleInterval     = 0.5
	defaultMaxBadTimestampFraction = 0.05
	defaultPacingWindowSeconds     = 8.0
	defaultWordToleranceSeconds    = 0.75
	defaultBrightnessDelta         = 0.18
	defaultHueDistance             = 0.25
	defaultMotionDelta             = 0.30
	defaultInterruptWindowSeconds  = 1.5

	defaultMinPeerSet           = 5
	defaultMinPatternConfidence = 0.6
	defaultMinPatternSamples    = 5

	defaultBatchWorkers        = 4
	defaultVisionRatePerSecond = 5.0
	defaultVisionBurst         = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:        defaultDataDir,
			LogDir:         defaultLogDir,
			VisionCacheDir: defaultVisionCacheDir,
		},
		Analysis: Analysis{
			FrameSampleInterval:     defaultFrameSampleInterval,
			MaxBadTimestampFraction: defaultMaxBadTimestampFraction,
			PacingWindowSeconds:     defaultPacingWindowSeconds,
			WordToleranceSeconds:    defaultWordToleranceSeconds,
			BrightnessDelta:         defaultBrightnessDelta,
			HueDistance:             defaultHueDistance,
			MotionDelta:             defaultMotionDelta,
			InterruptWindowSeconds:  defaultInterruptWindowSeconds,
		},
		Weights: Weights{
			Focus:     0.25,
			Authority: 0.25,
			Tribe:     0.25,
			Emotion:   0.25,

			PreHookStrength:   0.35,
			PreFateCombined:   0.35,
			PrePayloadClarity: 0.15,
			PreCTAClarity:     0.15,

			PostSize:     0.40,
			PostPlatform: 0.35,
			PostDecay:    0.25,
		},
		Scoring: Scoring{
			Platforms: map[string]Platform{
				"tiktok":          {EngagementRate: 0.08, ViewsPerThousandFollowers: 800},
				"instagram_reels": {EngagementRate: 0.05, ViewsPerThousandFollowers: 500},
				"youtube_shorts":  {EngagementRate: 0.04, ViewsPerThousandFollowers: 400},
			},
			DecayBuckets: []DecayBucket{
				{MaxHours: 6, Weight: 1.0},
				{MaxHours: 24, Weight: 0.9},
				{MaxHours: 48, Weight: 0.7},
				{MaxHours: 72, Weight: 0.5},
				{MaxHours: 0, Weight: 0.3}, // open-ended tail
			},
			MinPeerSet:           defaultMinPeerSet,
			MinPatternConfidence: defaultMinPatternConfidence,
			MinPatternSamples:    defaultMinPatternSamples,
		},
		Batch: Batch{
			Workers:             defaultBatchWorkers,
			VisionRatePerSecond: defaultVisionRatePerSecond,
			VisionBurst:         defaultVisionBurst,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
