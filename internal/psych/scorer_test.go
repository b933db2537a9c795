package psych_test

import (
	"testing"

	"reelscore/internal/frames"
	"reelscore/internal/psych"
	"reelscore/internal/segment"
	"reelscore/internal/timeline"
	"reelscore/internal/words"
)

func extractEvents(t *testing.T, texts []string) []words.Event {
	t.Helper()
	timed := make([]words.TimedWord, len(texts))
	for i, text := range texts {
		start := float64(i) * 0.5
		timed[i] = words.TimedWord{Text: text, Start: start, End: start + 0.4, Timed: true}
	}
	events, _, err := words.Extract(words.Transcript{VideoID: "vid", Words: timed}, words.Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return events
}

func buildSegments(t *testing.T, tl *timeline.Timeline, duration float64) segment.Result {
	t.Helper()
	result, err := segment.Build(tl, "vid", duration, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return result
}

func TestComputeBoundsAndDeterminism(t *testing.T) {
	events := extractEvents(t, []string{
		"Stop", "wasting", "hours", "freelancers", "this", "is", "for", "you",
		"my", "clients", "doubled", "revenue", "comment", "below",
	})
	frameEvents := []frames.Event{
		{VideoID: "vid", Time: 0.5, VisionKnown: true, TextOverlay: "client results: +240%"},
		{VideoID: "vid", Time: 1.5, VisionKnown: true},
	}
	tl := timeline.New(events, frameEvents, 0)
	segments := buildSegments(t, tl, 10)
	lexicon := words.NewLexicon(words.Extra{})

	first := psych.Compute("vid", segments, tl, lexicon, psych.Weights{})
	second := psych.Compute("vid", segments, tl, lexicon, psych.Weights{})
	if first != second {
		t.Fatalf("expected deterministic scores, got %+v vs %+v", first, second)
	}

	for name, value := range map[string]float64{
		"focus":         first.Focus,
		"authority":     first.Authority,
		"tribe":         first.Tribe,
		"emotion":       first.Emotion,
		"fate_combined": first.FATECombined,
		"hook_strength": first.HookStrength,
	} {
		if value < 0 || value > 1 {
			t.Fatalf("%s out of [0,1]: %v", name, value)
		}
	}
	if first.Authority == 0 {
		t.Fatal("expected proof frame and credential words to raise authority")
	}
	if first.Tribe == 0 {
		t.Fatal("expected identity call to raise tribe")
	}
	if first.HookType != segment.HookPain {
		t.Fatalf("expected pain hook type carried through, got %q", first.HookType)
	}
}

func TestEmotionReflectsSentimentExtremity(t *testing.T) {
	flat := extractEvents(t, []string{"the", "report", "covers", "four", "sections"})
	charged := extractEvents(t, []string{"I", "hate", "wasting", "money", "every", "single", "day"})

	lexicon := words.NewLexicon(words.Extra{})
	flatTL := timeline.New(flat, nil, 0)
	chargedTL := timeline.New(charged, nil, 0)

	flatScore := psych.Compute("vid", buildSegments(t, flatTL, 5), flatTL, lexicon, psych.Weights{})
	chargedScore := psych.Compute("vid", buildSegments(t, chargedTL, 5), chargedTL, lexicon, psych.Weights{})

	if chargedScore.Emotion <= flatScore.Emotion {
		t.Fatalf("expected charged copy to out-score flat copy: %v vs %v",
			chargedScore.Emotion, flatScore.Emotion)
	}
}

func TestWeightsShiftCombinedScore(t *testing.T) {
	events := extractEvents(t, []string{"freelancers", "gurus", "lie", "to", "you"})
	tl := timeline.New(events, nil, 0)
	segments := buildSegments(t, tl, 5)
	lexicon := words.NewLexicon(words.Extra{})

	tribeHeavy := psych.Compute("vid", segments, tl, lexicon, psych.Weights{Tribe: 1})
	emotionHeavy := psych.Compute("vid", segments, tl, lexicon, psych.Weights{Emotion: 1})

	if tribeHeavy.FATECombined <= emotionHeavy.FATECombined {
		t.Fatalf("expected tribe-weighted blend to dominate for tribal copy: %v vs %v",
			tribeHeavy.FATECombined, emotionHeavy.FATECombined)
	}
}

func TestConfidenceDropsWithoutVision(t *testing.T) {
	events := extractEvents(t, []string{"hello", "there"})
	withVision := []frames.Event{{VideoID: "vid", Time: 0.5, VisionKnown: true}}
	withoutVision := []frames.Event{{VideoID: "vid", Time: 0.5}}

	lexicon := words.NewLexicon(words.Extra{})
	fullTL := timeline.New(events, withVision, 0)
	degradedTL := timeline.New(events, withoutVision, 0)

	full := psych.Compute("vid", buildSegments(t, fullTL, 5), fullTL, lexicon, psych.Weights{})
	degraded := psych.Compute("vid", buildSegments(t, degradedTL, 5), degradedTL, lexicon, psych.Weights{})

	if full.Confidence <= degraded.Confidence {
		t.Fatalf("expected higher confidence with vision output: %v vs %v",
			full.Confidence, degraded.Confidence)
	}
}
