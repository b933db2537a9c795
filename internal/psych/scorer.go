package psych

import (
	"strings"

	"reelscore/internal/frames"
	"reelscore/internal/segment"
	"reelscore/internal/timeline"
	"reelscore/internal/words"
)

// Weights blends the four FATE sub-scores. Callers pass normalized weights
// from config; the zero value falls back to equal weighting.
type Weights struct {
	Focus     float64
	Authority float64
	Tribe     float64
	Emotion   float64
}

func (w Weights) orDefault() Weights {
	if w.Focus+w.Authority+w.Tribe+w.Emotion <= 0 {
		return Weights{Focus: 0.25, Authority: 0.25, Tribe: 0.25, Emotion: 0.25}
	}
	return w
}

// Score is the psychology profile of one video. All sub-scores live in
// [0,1] and are deterministic for identical inputs.
type Score struct {
	VideoID      string
	Focus        float64
	Authority    float64
	Tribe        float64
	Emotion      float64
	FATECombined float64
	HookType     segment.HookType
	HookStrength float64
	// Confidence annotates how complete the inputs were; partial inputs
	// still score, they just carry a lower confidence.
	Confidence float64
}

// hookPriors encode how reliably each hook subtype stops the scroll.
var hookPriors = map[segment.HookType]float64{
	segment.HookPatternInterrupt: 0.9,
	segment.HookPain:             0.8,
	segment.HookQuestion:         0.75,
	segment.HookStory:            0.7,
	segment.HookPromise:          0.5,
}

// proofOverlayMarkers are substrings of on-screen text that read as
// testimonial or result evidence.
var proofOverlayMarkers = []string{"$", "%", "result", "before", "after", "review", "client", "proof"}

// Compute derives the FATE profile from segments, words, and frames. It is a
// pure function with no external calls.
func Compute(videoID string, segments segment.Result, tl *timeline.Timeline, lexicon *words.Lexicon, weights Weights) Score {
	weights = weights.orDefault()

	opening := openingWindow(segments, tl)

	score := Score{
		VideoID:   videoID,
		Focus:     focusScore(opening, lexicon),
		Authority: authorityScore(tl, lexicon),
		Tribe:     tribeScore(tl.Words(), lexicon),
		Emotion:   emotionScore(tl.Words(), lexicon),
		HookType:  segments.Hook,
	}
	score.FATECombined = clamp01(weights.Focus*score.Focus +
		weights.Authority*score.Authority +
		weights.Tribe*score.Tribe +
		weights.Emotion*score.Emotion)
	score.HookStrength = hookStrength(segments, tl, lexicon, weights)
	score.Confidence = confidence(tl.Frames())
	return score
}

// openingWindow returns the words inside hook plus context, where audience
// specificity matters most.
func openingWindow(segments segment.Result, tl *timeline.Timeline) []words.Event {
	end := 0.0
	if hook, ok := segments.ByType(segment.TypeHook); ok {
		end = hook.End
	}
	if ctx, ok := segments.ByType(segment.TypeContext); ok {
		end = ctx.End
	}
	if end <= 0 {
		return tl.Words()
	}
	return tl.WordsBetween(0, end)
}

// focusScore rewards a narrow, named audience or problem in the opening:
// identity calls, direct address, and concrete numerals.
func focusScore(opening []words.Event, lexicon *words.Lexicon) float64 {
	var hits float64
	for _, event := range opening {
		folded := words.Fold(event.Text)
		switch {
		case lexicon.IsIdentityCall(folded):
			hits += 1.5
		case event.Function == words.FunctionPainPoint:
			hits++
		case event.Emphasis:
			hits += 0.5
		}
	}
	return saturate(hits, 4)
}

// authorityScore counts credential words and proof frames (on-screen text
// matching testimonial or result patterns). Frames without vision output
// contribute nothing rather than counting against the score.
func authorityScore(tl *timeline.Timeline, lexicon *words.Lexicon) float64 {
	var hits float64
	for _, event := range tl.Words() {
		if lexicon.IsProofWord(words.Fold(event.Text)) || event.Function == words.FunctionProof {
			hits++
		}
	}
	for _, frame := range tl.Frames() {
		if isProofFrame(frame) {
			hits += 1.5
		}
	}
	return saturate(hits, 4)
}

func isProofFrame(frame frames.Event) bool {
	if !frame.VisionKnown || frame.TextOverlay == "" {
		return false
	}
	overlay := strings.ToLower(frame.TextOverlay)
	for _, marker := range proofOverlayMarkers {
		if strings.Contains(overlay, marker) {
			return true
		}
	}
	return false
}

func tribeScore(events []words.Event, lexicon *words.Lexicon) float64 {
	var hits float64
	for _, event := range events {
		folded := words.Fold(event.Text)
		if lexicon.IsIdentityCall(folded) {
			hits++
		}
		if lexicon.IsSharedEnemy(folded) {
			hits += 1.5
		}
	}
	return saturate(hits, 3)
}

// emotionScore blends sentiment extremity with stakes words.
func emotionScore(events []words.Event, lexicon *words.Lexicon) float64 {
	var extremity float64
	var charged int
	var stakes float64
	for _, event := range events {
		if event.Sentiment != 0 {
			extremity += abs(event.Sentiment)
			charged++
		}
		if lexicon.IsStakes(words.Fold(event.Text)) {
			stakes++
		}
	}
	var meanExtremity float64
	if charged > 0 {
		meanExtremity = extremity / float64(charged)
	}
	return clamp01(0.6*meanExtremity + 0.4*saturate(stakes, 3))
}

// hookStrength blends the subtype prior with the FATE signal measured inside
// the hook segment only.
func hookStrength(segments segment.Result, tl *timeline.Timeline, lexicon *words.Lexicon, weights Weights) float64 {
	prior, ok := hookPriors[segments.Hook]
	if !ok {
		prior = 0.5
	}

	hook, found := segments.ByType(segment.TypeHook)
	if !found {
		return clamp01(prior)
	}
	hookWords := tl.WordsBetween(hook.Start, hook.End)
	inHook := clamp01(weights.Focus*focusScore(hookWords, lexicon) +
		weights.Tribe*tribeScore(hookWords, lexicon) +
		weights.Emotion*emotionScore(hookWords, lexicon) +
		weights.Authority*0) // credentials rarely land in the first seconds

	return clamp01(0.6*prior + 0.4*inHook)
}

func confidence(frameEvents []frames.Event) float64 {
	if len(frameEvents) == 0 {
		return 0.5
	}
	known := 0
	for _, frame := range frameEvents {
		if frame.VisionKnown {
			known++
		}
	}
	return 0.6 + 0.4*float64(known)/float64(len(frameEvents))
}

// saturate maps a hit count onto [0,1), reaching 1 asymptotically so a few
// strong cues matter more than piles of weak ones.
func saturate(hits, scale float64) float64 {
	if hits <= 0 {
		return 0
	}
	return hits / (hits + scale)
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

func abs(value float64) float64 {
	if value < 0 {
		return -value
	}
	return value
}
