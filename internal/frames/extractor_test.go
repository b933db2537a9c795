package frames_test

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	"reelscore/internal/frames"
)

func uniformFrame(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

type sliceSource struct {
	samples []frames.Sample
	next    int
}

func (s *sliceSource) Next(context.Context) (frames.Sample, error) {
	if s.next >= len(s.samples) {
		return frames.Sample{}, io.EOF
	}
	sample := s.samples[s.next]
	s.next++
	return sample, nil
}

type stubVision struct {
	observation frames.Observation
	err         error
	calls       int
}

func (v *stubVision) Classify(_ context.Context, _ string, _ image.Image) (frames.Observation, error) {
	v.calls++
	if v.err != nil {
		return frames.Observation{}, v.err
	}
	return v.observation, nil
}

type mapCache map[string]frames.Observation

func (m mapCache) Lookup(hash string) (frames.Observation, bool) {
	observation, ok := m[hash]
	return observation, ok
}

func (m mapCache) Store(hash string, observation frames.Observation) error {
	m[hash] = observation
	return nil
}

func graySamples(times []float64, boost func(i int) uint8) []frames.Sample {
	samples := make([]frames.Sample, len(times))
	for i, t := range times {
		level := boost(i)
		samples[i] = frames.Sample{Time: t, Image: uniformFrame(color.RGBA{level, level, level, 255})}
	}
	return samples
}

func TestBrightnessJumpFlagsColorShift(t *testing.T) {
	// Dark frames every 0.5s, then a bright frame at 2.5s.
	times := []float64{0.5, 1.0, 1.5, 2.0, 2.5}
	samples := graySamples(times, func(i int) uint8 {
		if i == len(times)-1 {
			return 230
		}
		return 25
	})

	extractor := frames.NewExtractor(nil, nil, nil, nil, frames.Options{})
	events, err := extractor.Extract(context.Background(), "vid-1", &sliceSource{samples: samples})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	last := events[len(events)-1]
	if !last.Interrupt {
		t.Fatal("expected pattern interrupt on bright frame")
	}
	if last.InterruptType != frames.InterruptColorShift {
		t.Fatalf("expected color-shift, got %q", last.InterruptType)
	}
	for _, event := range events[:4] {
		if event.Interrupt {
			t.Fatalf("unexpected interrupt at t=%v", event.Time)
		}
	}
}

func TestHueAndMotionJumpFlagsCut(t *testing.T) {
	white := uniformFrame(color.RGBA{255, 255, 255, 255})
	blue := uniformFrame(color.RGBA{0, 0, 255, 255})
	samples := []frames.Sample{
		{Time: 0.5, Image: white},
		{Time: 1.0, Image: white},
		{Time: 1.5, Image: blue},
	}

	extractor := frames.NewExtractor(nil, nil, nil, nil, frames.Options{})
	events, err := extractor.Extract(context.Background(), "vid-2", &sliceSource{samples: samples})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if events[2].InterruptType != frames.InterruptCut {
		t.Fatalf("expected cut, got %q", events[2].InterruptType)
	}
}

func TestVisionResultsAppliedAndCached(t *testing.T) {
	vision := &stubVision{observation: frames.Observation{
		Shot:        frames.ShotCloseUp,
		Face:        frames.FlagTrue,
		EyeContact:  frames.FlagTrue,
		TextOverlay: "RESULTS INSIDE",
	}}
	cache := mapCache{}
	samples := graySamples([]float64{0.5, 1.0}, func(int) uint8 { return 120 })

	extractor := frames.NewExtractor(vision, cache, nil, nil, frames.Options{})
	events, err := extractor.Extract(context.Background(), "vid-3", &sliceSource{samples: samples})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, event := range events {
		if !event.VisionKnown || event.Shot != frames.ShotCloseUp || event.Face != frames.FlagTrue {
			t.Fatalf("expected vision fields applied, got %+v", event)
		}
	}
	// Identical frames share a content hash, so the second frame hits cache.
	if vision.calls != 1 {
		t.Fatalf("expected a single vision call, got %d", vision.calls)
	}
}

func TestVisionOutageDegradesToHeuristics(t *testing.T) {
	vision := &stubVision{err: errors.New("model endpoint down")}
	samples := graySamples([]float64{0.5, 1.0, 1.5}, func(int) uint8 { return 120 })

	extractor := frames.NewExtractor(vision, nil, nil, nil, frames.Options{})
	events, err := extractor.Extract(context.Background(), "vid-4", &sliceSource{samples: samples})
	if err != nil {
		t.Fatalf("Extract should not fail on vision outage: %v", err)
	}
	for _, event := range events {
		if event.VisionKnown {
			t.Fatalf("expected degraded event, got %+v", event)
		}
		if event.Shot != frames.ShotUnknown {
			t.Fatalf("expected unknown shot, got %q", event.Shot)
		}
		if event.Face.Known() {
			t.Fatal("expected unknown face flag")
		}
	}
	if vision.calls != 1 {
		t.Fatalf("expected degradation after first failure, got %d calls", vision.calls)
	}
}

func TestOutOfOrderSamplesDropped(t *testing.T) {
	samples := graySamples([]float64{0.5, 1.0, 0.8, 1.5}, func(int) uint8 { return 120 })
	extractor := frames.NewExtractor(nil, nil, nil, nil, frames.Options{})
	events, err := extractor.Extract(context.Background(), "vid-5", &sliceSource{samples: samples})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected out-of-order sample dropped, got %d events", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time <= events[i-1].Time {
			t.Fatal("expected strictly increasing frame times")
		}
	}
}

func TestSourceFailureAborts(t *testing.T) {
	extractor := frames.NewExtractor(nil, nil, nil, nil, frames.Options{})
	_, err := extractor.Extract(context.Background(), "vid-6", failingSource{})
	if err == nil {
		t.Fatal("expected source failure to abort")
	}
}

type failingSource struct{}

func (failingSource) Next(context.Context) (frames.Sample, error) {
	return frames.Sample{}, errors.New("decoder crashed")
}
