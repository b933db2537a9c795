package frames

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"reelscore/internal/logging"
)

// ObservationCache stores vision results keyed by frame content hash.
// Satisfied by visioncache.Cache.
type ObservationCache interface {
	Lookup(contentHash string) (Observation, bool)
	Store(contentHash string, observation Observation) error
}

// Options controls interrupt detection thresholds. Zero fields fall back to
// package defaults.
type Options struct {
	BrightnessDelta        float64
	HueDistance            float64
	MotionDelta            float64
	InterruptWindowSeconds float64
}

const (
	defaultBrightnessDelta = 0.18
	defaultHueDistance     = 0.25
	defaultMotionDelta     = 0.30
	defaultInterruptWindow = 1.5
)

func (o *Options) applyDefaults() {
	if o.BrightnessDelta <= 0 {
		o.BrightnessDelta = defaultBrightnessDelta
	}
	if o.HueDistance <= 0 {
		o.HueDistance = defaultHueDistance
	}
	if o.MotionDelta <= 0 {
		o.MotionDelta = defaultMotionDelta
	}
	if o.InterruptWindowSeconds <= 0 {
		o.InterruptWindowSeconds = defaultInterruptWindow
	}
}

// Extractor consumes sampled frames and produces the annotated frame
// timeline. The vision collaborator and cache are optional; without them
// events carry pixel heuristics only.
type Extractor struct {
	vision  Vision
	cache   ObservationCache
	limiter Waiter
	logger  *slog.Logger
	opts    Options
}

// NewExtractor constructs a frame extractor. Any of vision, cache, and
// limiter may be nil.
func NewExtractor(vision Vision, cache ObservationCache, limiter Waiter, logger *slog.Logger, opts Options) *Extractor {
	opts.applyDefaults()
	return &Extractor{
		vision:  vision,
		cache:   cache,
		limiter: limiter,
		logger:  logging.NewComponentLogger(logger, "frames"),
		opts:    opts,
	}
}

type windowEntry struct {
	time  float64
	stats Stats
}

// Extract drains the source and returns frame events in strictly increasing
// time order. Vision outages degrade to heuristics-only events; only source
// failures abort the video.
func (e *Extractor) Extract(ctx context.Context, videoID string, source Source) ([]Event, error) {
	var (
		events   []Event
		window   []windowEntry
		previous *windowEntry
		degraded bool
		lastTime = -1.0
	)

	for {
		sample, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("frame source: %w", err)
		}
		if sample.Time <= lastTime {
			logging.WarnWithContext(e.logger, "dropping out-of-order frame sample", "frame_sample_out_of_order",
				logging.String(logging.FieldVideoID, videoID),
				logging.Float64("sample_time", sample.Time),
				logging.String(logging.FieldImpact, "frame skipped"),
			)
			continue
		}
		lastTime = sample.Time

		stats := ComputeStats(sample.Image)
		event := Event{
			VideoID:    videoID,
			Time:       sample.Time,
			Shot:       ShotUnknown,
			Brightness: stats.Brightness,
			Clutter:    stats.Clutter(),
		}

		if previous != nil {
			event.Motion = stats.MotionAgainst(previous.stats)
		}
		event.Interrupt, event.InterruptType = e.detectInterrupt(stats, event.Motion, window)

		observation, known := e.observe(ctx, videoID, stats, sample, &degraded)
		if known {
			event.Shot = observation.Shot
			event.Face = observation.Face
			event.EyeContact = observation.EyeContact
			event.TextOverlay = observation.TextOverlay
			event.Objects = observation.Objects
			event.VisionKnown = true
		}

		events = append(events, event)

		entry := windowEntry{time: sample.Time, stats: stats}
		previous = &entry
		window = append(window, entry)
		window = trimWindow(window, sample.Time-e.opts.InterruptWindowSeconds)
	}

	return events, nil
}

// detectInterrupt compares the frame against the rolling window preceding it.
// A hue jump paired with motion reads as a hard cut, luminance or hue change
// alone as a color shift, and motion alone as a zoom.
func (e *Extractor) detectInterrupt(stats Stats, motion float64, window []windowEntry) (bool, InterruptType) {
	if len(window) == 0 {
		return false, InterruptNone
	}
	var meanBrightness float64
	var reference Stats
	for _, entry := range window {
		meanBrightness += entry.stats.Brightness
	}
	meanBrightness /= float64(len(window))
	reference = window[len(window)-1].stats

	brightnessJump := abs(stats.Brightness-meanBrightness) > e.opts.BrightnessDelta
	hueJump := stats.HueDistanceTo(reference) > e.opts.HueDistance
	motionJump := motion > e.opts.MotionDelta

	switch {
	case hueJump && motionJump:
		return true, InterruptCut
	case brightnessJump || hueJump:
		return true, InterruptColorShift
	case motionJump:
		return true, InterruptZoom
	default:
		return false, InterruptNone
	}
}

// observe resolves the vision observation for a frame: cache first, then the
// collaborator behind the shared rate limiter. The first classification
// failure degrades the rest of the video to heuristics-only.
func (e *Extractor) observe(ctx context.Context, videoID string, stats Stats, sample Sample, degraded *bool) (Observation, bool) {
	if e.vision == nil || *degraded {
		return UnknownObservation(), false
	}

	hash := stats.ContentHash()
	if e.cache != nil {
		if cached, found := e.cache.Lookup(hash); found {
			return cached, true
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			*degraded = true
			return UnknownObservation(), false
		}
	}

	observation, err := e.vision.Classify(ctx, hash, sample.Image)
	if err != nil {
		*degraded = true
		logging.WarnWithContext(e.logger, "vision collaborator unavailable", "vision_unavailable",
			logging.String(logging.FieldVideoID, videoID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check vision service health"),
			logging.String(logging.FieldImpact, "remaining frames carry pixel heuristics only"),
		)
		return UnknownObservation(), false
	}

	if e.cache != nil {
		if err := e.cache.Store(hash, observation); err != nil {
			e.logger.Debug("vision cache store failed", logging.Error(err))
		}
	}
	return observation, true
}

func trimWindow(window []windowEntry, cutoff float64) []windowEntry {
	idx := 0
	for idx < len(window) && window[idx].time < cutoff {
		idx++
	}
	if idx == 0 {
		return window
	}
	return append(window[:0:0], window[idx:]...)
}

func abs(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}
