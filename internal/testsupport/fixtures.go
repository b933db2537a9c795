package testsupport

import (
	"context"
	"image"
	"image/color"
	"io"
	"strings"

	"reelscore/internal/frames"
	"reelscore/internal/words"
)

// Transcript builds an evenly timed transcript from script text. Words are
// spaced wordSeconds apart starting at zero.
func Transcript(videoID, script string, wordSeconds float64) words.Transcript {
	if wordSeconds <= 0 {
		wordSeconds = 0.5
	}
	fields := strings.Fields(script)
	timed := make([]words.TimedWord, 0, len(fields))
	for i, field := range fields {
		start := float64(i) * wordSeconds
		timed = append(timed, words.TimedWord{
			Text:  field,
			Start: start,
			End:   start + wordSeconds*0.8,
			Timed: true,
		})
	}
	return words.Transcript{VideoID: videoID, Words: timed}
}

// SolidFrame produces a uniform frame for pixel-heuristic tests.
func SolidFrame(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// SliceSource replays a fixed set of samples, then io.EOF. Err, when set, is
// returned after the samples are exhausted instead of io.EOF.
type SliceSource struct {
	Samples []frames.Sample
	Err     error
	next    int
}

func (s *SliceSource) Next(ctx context.Context) (frames.Sample, error) {
	if err := ctx.Err(); err != nil {
		return frames.Sample{}, err
	}
	if s.next >= len(s.Samples) {
		if s.Err != nil {
			return frames.Sample{}, s.Err
		}
		return frames.Sample{}, io.EOF
	}
	sample := s.Samples[s.next]
	s.next++
	return sample, nil
}

// SolidSource builds a SliceSource of uniform frames at interval spacing.
func SolidSource(colors []color.RGBA, interval float64) *SliceSource {
	samples := make([]frames.Sample, 0, len(colors))
	for i, c := range colors {
		samples = append(samples, frames.Sample{
			Time:  float64(i) * interval,
			Image: SolidFrame(c),
		})
	}
	return &SliceSource{Samples: samples}
}

// StubVision returns a fixed observation, optionally failing after a number
// of successful calls to exercise degraded mode.
type StubVision struct {
	Observation frames.Observation
	FailAfter   int // calls before returning FailErr; <0 never fails
	FailErr     error
	Calls       int
}

func (v *StubVision) Classify(ctx context.Context, contentHash string, frame image.Image) (frames.Observation, error) {
	v.Calls++
	if v.FailErr != nil && v.FailAfter >= 0 && v.Calls > v.FailAfter {
		return frames.Observation{}, v.FailErr
	}
	return v.Observation, nil
}
