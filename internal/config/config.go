package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir        string `toml:"data_dir"`
	LogDir         string `toml:"log_dir"`
	VisionCacheDir string `toml:"vision_cache_dir"`
}

// Analysis contains tunables for the word and frame extractors.
type Analysis struct {
	// FrameSampleInterval is the expected spacing between sampled frames in
	// seconds. Sources are free to deliver denser samples; this value only
	// scales the interrupt-detection window.
	FrameSampleInterval float64 `toml:"frame_sample_interval"`
	// MaxBadTimestampFraction is the fraction of words with missing or
	// non-monotonic timestamps above which a transcript is rejected.
	MaxBadTimestampFraction float64 `toml:"max_bad_timestamp_fraction"`
	// PacingWindowSeconds is the sliding window used for words-per-minute.
	PacingWindowSeconds float64 `toml:"pacing_window_seconds"`
	// WordToleranceSeconds bounds how far the aligner looks for nearby words.
	WordToleranceSeconds float64 `toml:"word_tolerance_seconds"`
	// BrightnessDelta, HueDistance, and MotionDelta are the per-channel
	// thresholds for flagging a pattern interrupt.
	BrightnessDelta float64 `toml:"brightness_delta"`
	HueDistance     float64 `toml:"hue_distance"`
	MotionDelta     float64 `toml:"motion_delta"`
	// InterruptWindowSeconds is the rolling comparison window for interrupts.
	InterruptWindowSeconds float64 `toml:"interrupt_window_seconds"`
}

// Weights contains the scoring blend weights. All groups are renormalized at
// load time so operators can express relative importance without making the
// values sum to one.
type Weights struct {
	Focus     float64 `toml:"focus"`
	Authority float64 `toml:"authority"`
	Tribe     float64 `toml:"tribe"`
	Emotion   float64 `toml:"emotion"`

	PreHookStrength   float64 `toml:"pre_hook_strength"`
	PreFateCombined   float64 `toml:"pre_fate_combined"`
	PrePayloadClarity float64 `toml:"pre_payload_clarity"`
	PreCTAClarity     float64 `toml:"pre_cta_clarity"`

	PostSize     float64 `toml:"post_size"`
	PostPlatform float64 `toml:"post_platform"`
	PostDecay    float64 `toml:"post_decay"`
}

// Platform describes per-platform audience baselines.
type Platform struct {
	// EngagementRate is the expected (likes+comments+shares)/views ratio.
	EngagementRate float64 `toml:"engagement_rate"`
	// ViewsPerThousandFollowers is the expected view count per 1000 followers.
	ViewsPerThousandFollowers float64 `toml:"views_per_thousand_followers"`
}

// DecayBucket discounts engagement by hours since posting.
type DecayBucket struct {
	MaxHours float64 `toml:"max_hours"`
	Weight   float64 `toml:"weight"`
}

// Scoring contains thresholds shared by the post-publish scorer and the
// pattern matcher.
type Scoring struct {
	Platforms            map[string]Platform `toml:"platforms"`
	DecayBuckets         []DecayBucket       `toml:"decay_buckets"`
	MinPeerSet           int                 `toml:"min_peer_set"`
	MinPatternConfidence float64             `toml:"min_pattern_confidence"`
	MinPatternSamples    int                 `toml:"min_pattern_samples"`
}

// Cues extends the built-in lexical cue lists. Entries are folded and merged
// with package defaults; they never replace them.
type Cues struct {
	Hook       []string `toml:"hook"`
	PainPoint  []string `toml:"pain_point"`
	Step       []string `toml:"step"`
	Proof      []string `toml:"proof"`
	CTA        []string `toml:"cta"`
	Identity   []string `toml:"identity"`
	Enemy      []string `toml:"enemy"`
	Credential []string `toml:"credential"`
	Stakes     []string `toml:"stakes"`
}

// Batch contains orchestrator settings.
type Batch struct {
	Workers int `toml:"workers"`
	// VisionRatePerSecond caps shared vision-model calls across all workers.
	VisionRatePerSecond float64 `toml:"vision_rate_per_second"`
	VisionBurst         int     `toml:"vision_burst"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelscore.
//
// Configuration sections by subsystem:
//   - Paths: data, log, and vision-cache directories
//   - Analysis: extractor thresholds and windows
//   - Weights: FATE, pre-publish, and post-publish blend weights
//   - Scoring: platform baselines, decay buckets, minimum-sample guards
//   - Cues: operator extensions to the lexical cue lists
//   - Batch: worker pool size and vision rate limiting
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Analysis Analysis `toml:"analysis"`
	Weights  Weights  `toml:"weights"`
	Scoring  Scoring  `toml:"scoring"`
	Cues     Cues     `toml:"cues"`
	Batch    Batch    `toml:"batch"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelscore/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelscore.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the store and caches live in.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.VisionCacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
