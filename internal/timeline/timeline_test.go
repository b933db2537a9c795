package timeline_test

import (
	"testing"

	"reelscore/internal/frames"
	"reelscore/internal/timeline"
	"reelscore/internal/words"
)

func wordAt(index int, text string, start, end float64) words.Event {
	return words.Event{VideoID: "vid", Index: index, Text: text, Start: start, End: end}
}

func frameAt(t float64) frames.Event {
	return frames.Event{VideoID: "vid", Time: t}
}

func TestContextAtFindsNearbyWordsAndFrame(t *testing.T) {
	wordEvents := []words.Event{
		wordAt(0, "stop", 0.0, 0.3),
		wordAt(1, "wasting", 0.3, 0.7),
		wordAt(2, "hours", 0.7, 1.0),
		wordAt(3, "template", 4.0, 4.4),
	}
	frameEvents := []frames.Event{frameAt(0.5), frameAt(1.0), frameAt(1.5), frameAt(4.5)}

	tl := timeline.New(wordEvents, frameEvents, 0.5)

	ctx := tl.ContextAt(0.5)
	if len(ctx.Words) != 3 {
		t.Fatalf("expected 3 words near 0.5s, got %d", len(ctx.Words))
	}
	if ctx.Frame == nil || ctx.Frame.Time != 0.5 {
		t.Fatalf("expected frame at 0.5, got %+v", ctx.Frame)
	}

	ctx = tl.ContextAt(4.1)
	if len(ctx.Words) != 1 || ctx.Words[0].Text != "template" {
		t.Fatalf("expected only the distant word, got %+v", ctx.Words)
	}
}

func TestNearestFrameTieBreaksEarlier(t *testing.T) {
	tl := timeline.New(nil, []frames.Event{frameAt(1.0), frameAt(2.0)}, 0)
	ctx := tl.ContextAt(1.5)
	if ctx.Frame == nil || ctx.Frame.Time != 1.0 {
		t.Fatalf("expected tie to break toward earlier frame, got %+v", ctx.Frame)
	}
}

func TestNearestFrameClampsToEnds(t *testing.T) {
	tl := timeline.New(nil, []frames.Event{frameAt(1.0), frameAt(2.0)}, 0)
	if got := tl.ContextAt(-5).Frame; got == nil || got.Time != 1.0 {
		t.Fatalf("expected first frame before range, got %+v", got)
	}
	if got := tl.ContextAt(99).Frame; got == nil || got.Time != 2.0 {
		t.Fatalf("expected last frame after range, got %+v", got)
	}
}

func TestBetweenQueries(t *testing.T) {
	wordEvents := []words.Event{
		wordAt(0, "a", 0.0, 0.4),
		wordAt(1, "b", 1.0, 1.4),
		wordAt(2, "c", 2.0, 2.4),
	}
	frameEvents := []frames.Event{frameAt(0.5), frameAt(1.5), frameAt(2.5)}
	tl := timeline.New(wordEvents, frameEvents, 0)

	if got := tl.WordsBetween(0.5, 2.0); len(got) != 1 || got[0].Text != "b" {
		t.Fatalf("unexpected words in [0.5,2.0): %+v", got)
	}
	if got := tl.FramesBetween(1.0, 3.0); len(got) != 2 {
		t.Fatalf("expected 2 frames in [1.0,3.0), got %d", len(got))
	}
}

func TestEmptyTimeline(t *testing.T) {
	tl := timeline.New(nil, nil, 0)
	ctx := tl.ContextAt(1.0)
	if ctx.Frame != nil || len(ctx.Words) != 0 {
		t.Fatalf("expected empty context, got %+v", ctx)
	}
}
