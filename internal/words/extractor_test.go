package words_test

import (
	"errors"
	"math"
	"testing"

	"reelscore/internal/words"
)

func timedTranscript(videoID string, texts []string, spacing float64) words.Transcript {
	wordsIn := make([]words.TimedWord, len(texts))
	for i, text := range texts {
		start := float64(i) * spacing
		wordsIn[i] = words.TimedWord{Text: text, Start: start, End: start + spacing*0.8, Timed: true}
	}
	return words.Transcript{VideoID: videoID, Words: wordsIn}
}

func TestExtractClassifiesPainAndCTA(t *testing.T) {
	texts := []string{
		"Stop", "wasting", "hours", "on", "emails.",
		"Comment", "AUTOMATION", "to", "get", "my", "template.",
	}
	transcript := timedTranscript("vid-1", texts, 0.4)

	events, _, err := words.Extract(transcript, words.Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(events) != len(texts) {
		t.Fatalf("expected %d events, got %d", len(texts), len(events))
	}

	if events[0].Function != words.FunctionPainPoint {
		t.Fatalf("expected %q to classify as pain_point, got %q", events[0].Text, events[0].Function)
	}
	if events[1].Function != words.FunctionPainPoint {
		t.Fatalf("expected %q to classify as pain_point, got %q", events[1].Text, events[1].Function)
	}
	if events[5].Function != words.FunctionCTA {
		t.Fatalf("expected %q to classify as cta, got %q", events[5].Text, events[5].Function)
	}
	if !events[6].Emphasis {
		t.Fatalf("expected %q to be emphasized", events[6].Text)
	}
	if events[1].Sentiment >= 0 {
		t.Fatalf("expected negative sentiment for %q, got %v", events[1].Text, events[1].Sentiment)
	}
}

func TestExtractOrderingAndNoOverlap(t *testing.T) {
	transcript := timedTranscript("vid-2", []string{"one", "two", "three", "four"}, 0.5)
	// Damage one word: start regresses behind its predecessor.
	transcript.Words[2].Start = 0.1
	transcript.Words[2].End = 0.2

	events, _, err := words.Extract(transcript, words.Options{MaxBadTimestampFraction: 0.5})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Start < events[i-1].End {
			t.Fatalf("events overlap at %d: %v then %v", i, events[i-1], events[i])
		}
	}
	if !events[2].Interpolated {
		t.Fatal("expected damaged word to be marked interpolated")
	}
}

func TestExtractInterpolatesMissingTimestamps(t *testing.T) {
	transcript := words.Transcript{
		VideoID: "vid-3",
		Words: []words.TimedWord{
			{Text: "alpha", Start: 0.0, End: 0.4, Timed: true},
			{Text: "beta"},
			{Text: "gamma"},
			{Text: "delta", Start: 1.6, End: 2.0, Timed: true},
		},
	}

	events, _, err := words.Extract(transcript, words.Options{MaxBadTimestampFraction: 0.6})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// The 1.2s gap between alpha's end and delta's start splits evenly.
	if math.Abs(events[1].Start-0.4) > 1e-9 || math.Abs(events[1].End-1.0) > 1e-9 {
		t.Fatalf("unexpected beta span: [%v, %v]", events[1].Start, events[1].End)
	}
	if math.Abs(events[2].Start-1.0) > 1e-9 || math.Abs(events[2].End-1.6) > 1e-9 {
		t.Fatalf("unexpected gamma span: [%v, %v]", events[2].Start, events[2].End)
	}
}

func TestExtractRejectsBadTranscript(t *testing.T) {
	transcript := words.Transcript{
		VideoID: "vid-4",
		Words: []words.TimedWord{
			{Text: "only", Start: 0, End: 0.3, Timed: true},
			{Text: "one"},
			{Text: "word"},
			{Text: "is"},
			{Text: "timed"},
		},
	}

	_, _, err := words.Extract(transcript, words.Options{})
	if err == nil {
		t.Fatal("expected incomplete transcript error")
	}
	var incomplete *words.IncompleteTranscriptError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteTranscriptError, got %T", err)
	}
	if incomplete.BadWords != 4 || incomplete.Total != 5 {
		t.Fatalf("unexpected audit counts: %+v", incomplete)
	}
}

func TestPacingSeries(t *testing.T) {
	// 20 words evenly spaced at 0.5s: 120 words per minute throughout.
	texts := make([]string, 20)
	for i := range texts {
		texts[i] = "word"
	}
	transcript := timedTranscript("vid-5", texts, 0.5)

	_, pacing, err := words.Extract(transcript, words.Options{PacingWindowSeconds: 5})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	wpm := pacing.At(5.0)
	if math.Abs(wpm-120) > 13 {
		t.Fatalf("expected roughly 120 wpm mid-clip, got %v", wpm)
	}
	if empty := words.NewPacingSeries(nil, 5).At(2); empty != 0 {
		t.Fatalf("expected zero pacing for empty series, got %v", empty)
	}
}

func TestFoldStripsPunctuationAndCase(t *testing.T) {
	cases := map[string]string{
		"Stop":        "stop",
		"emails.":     "emails",
		"AUTOMATION!": "automation",
		`"quoted"`:    "quoted",
	}
	for input, want := range cases {
		if got := words.Fold(input); got != want {
			t.Fatalf("Fold(%q) = %q, want %q", input, got, want)
		}
	}
}
