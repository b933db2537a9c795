package segment

import (
	"fmt"

	"reelscore/internal/timeline"
	"reelscore/internal/words"
)

const (
	hookMaxSeconds    = 3.0
	contextMaxSeconds = 10.0
	ctaSearchSeconds  = 10.0
	ctaMinSeconds     = 3.0
	payoffSeconds     = 3.0
	// pacingCeiling is the words-per-minute that maps to a pacing score of 1.
	pacingCeiling = 200.0
	// neutralClarity stands in when a range holds no sampled frames.
	neutralClarity = 0.5
)

// storyCues are the narrative markers checked for the story hook subtype.
var storyCues = map[string]struct{}{
	"when": {}, "once": {}, "story": {}, "remember": {}, "yesterday": {},
	"ago": {}, "met": {}, "told": {}, "happened": {}, "started": {},
}

// Build partitions the aligned timeline into the ordered hook / context /
// payload / payoff / cta sequence. The result is deterministic for identical
// inputs and always covers [0, duration] without gaps.
func Build(tl *timeline.Timeline, videoID string, duration float64, pacing *words.PacingSeries) (Result, error) {
	if duration <= 0 {
		return Result{}, fmt.Errorf("segment: duration must be positive, got %v", duration)
	}

	hookEnd := min(hookMaxSeconds, duration)
	ctaStart := findCTAStart(tl, duration, hookEnd)
	contextEnd := findContextEnd(tl, hookEnd, ctaStart)
	payoffStart := ctaStart - payoffSeconds
	if payoffStart <= contextEnd {
		// The window is already claimed by payload (or context).
		payoffStart = ctaStart
	}

	bounds := []struct {
		kind Type
		from float64
		to   float64
	}{
		{TypeHook, 0, hookEnd},
		{TypeContext, hookEnd, contextEnd},
		{TypePayload, contextEnd, payoffStart},
		{TypePayoff, payoffStart, ctaStart},
		{TypeCTA, ctaStart, duration},
	}

	segments := make([]Segment, 0, len(bounds))
	for _, b := range bounds {
		if b.to-b.from <= 0 {
			continue
		}
		segments = append(segments, score(tl, pacing, Segment{
			VideoID: videoID,
			Type:    b.kind,
			Start:   b.from,
			End:     b.to,
		}))
	}

	return Result{Segments: segments, Hook: classifyHook(tl, hookEnd)}, nil
}

// findCTAStart locates the trailing window with the highest density of CTA
// words. Without any CTA word in the last ctaSearchSeconds, the literal last
// three seconds stand in by convention.
func findCTAStart(tl *timeline.Timeline, duration, hookEnd float64) float64 {
	searchFrom := max(hookEnd, duration-ctaSearchSeconds)
	var firstCTA = -1.0
	for _, event := range tl.WordsBetween(searchFrom, duration) {
		if event.Function == words.FunctionCTA {
			firstCTA = event.Start
			break
		}
	}

	start := duration - ctaMinSeconds
	if firstCTA >= 0 && firstCTA < start {
		start = firstCTA
	}
	return clamp(start, hookEnd, duration)
}

// findContextEnd runs context from the hook until the first payload signal
// (a step word), bounded to contextMaxSeconds past the hook.
func findContextEnd(tl *timeline.Timeline, hookEnd, ctaStart float64) float64 {
	limit := min(hookEnd+contextMaxSeconds, ctaStart)
	for _, event := range tl.WordsBetween(hookEnd, limit) {
		if event.Function == words.FunctionStep {
			return clamp(event.Start, hookEnd, limit)
		}
	}
	return limit
}

// classifyHook decides the hook subtype from cues inside the hook range:
// pattern interrupt, then question, then pain, then story, then promise.
func classifyHook(tl *timeline.Timeline, hookEnd float64) HookType {
	for _, frame := range tl.FramesBetween(0, hookEnd) {
		if frame.Interrupt {
			return HookPatternInterrupt
		}
	}

	hookWords := tl.WordsBetween(0, hookEnd)
	for _, event := range hookWords {
		if event.Function == words.FunctionHook && event.Question {
			return HookQuestion
		}
	}
	for _, event := range hookWords {
		if event.Function == words.FunctionPainPoint || event.Sentiment < -0.4 {
			return HookPain
		}
	}
	for _, event := range hookWords {
		if _, ok := storyCues[words.Fold(event.Text)]; ok {
			return HookStory
		}
	}
	return HookPromise
}

// score fills clarity and pacing for a segment span.
func score(tl *timeline.Timeline, pacing *words.PacingSeries, seg Segment) Segment {
	frameEvents := tl.FramesBetween(seg.Start, seg.End)
	if len(frameEvents) == 0 {
		seg.Clarity = neutralClarity
	} else {
		var clutter float64
		for _, frame := range frameEvents {
			clutter += frame.Clutter
		}
		seg.Clarity = clamp(1-clutter/float64(len(frameEvents)), 0, 1)
	}

	if pacing != nil {
		seg.Pacing = clamp(pacing.Between(seg.Start, seg.End)/pacingCeiling, 0, 1)
	}
	return seg
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
