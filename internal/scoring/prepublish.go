package scoring

import (
	"math"

	"reelscore/internal/psych"
	"reelscore/internal/segment"
)

// PreWeights blends the pre-publish signals. Callers pass normalized weights
// from config; the zero value falls back to the repository defaults.
type PreWeights struct {
	HookStrength   float64
	FATECombined   float64
	PayloadClarity float64
	CTAClarity     float64
}

func (w PreWeights) orDefault() PreWeights {
	if w.HookStrength+w.FATECombined+w.PayloadClarity+w.CTAClarity <= 0 {
		return PreWeights{HookStrength: 0.35, FATECombined: 0.35, PayloadClarity: 0.15, CTAClarity: 0.15}
	}
	return w
}

// PreScore is the quality estimate available before any platform exposure.
// Recomputation over identical inputs is bit-for-bit identical.
type PreScore struct {
	VideoID    string
	Score      int // [0,100]
	Confidence float64
}

// ComputePre blends hook strength, FATE, and the clarity of the payload and
// CTA segments into a single bounded score.
func ComputePre(videoID string, segments segment.Result, profile psych.Score, weights PreWeights) PreScore {
	weights = weights.orDefault()

	blended := weights.HookStrength*profile.HookStrength +
		weights.FATECombined*profile.FATECombined +
		weights.PayloadClarity*segmentClarity(segments, segment.TypePayload) +
		weights.CTAClarity*segmentClarity(segments, segment.TypeCTA)

	score := int(math.Round(100 * blended))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return PreScore{VideoID: videoID, Score: score, Confidence: profile.Confidence}
}

// segmentClarity returns the clarity of the named segment, falling back to a
// neutral midpoint when the clip never produced that segment.
func segmentClarity(segments segment.Result, kind segment.Type) float64 {
	if seg, ok := segments.ByType(kind); ok {
		return seg.Clarity
	}
	return 0.5
}
