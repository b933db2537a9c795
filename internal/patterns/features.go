package patterns

import (
	"reelscore/internal/psych"
	"reelscore/internal/scoring"
	"reelscore/internal/segment"
)

// BuildVector flattens one video's analysis into the features predicates can
// test. Adding a feature here is backward compatible: existing predicates
// simply never reference it.
func BuildVector(profile psych.Score, segments segment.Result, pre scoring.PreScore) FeatureVector {
	numeric := map[string]float64{
		"focus":         profile.Focus,
		"authority":     profile.Authority,
		"tribe":         profile.Tribe,
		"emotion":       profile.Emotion,
		"fate_combined": profile.FATECombined,
		"hook_strength": profile.HookStrength,
		"pre_score":     float64(pre.Score),
	}
	for _, kind := range []segment.Type{segment.TypeHook, segment.TypePayload, segment.TypeCTA} {
		if seg, ok := segments.ByType(kind); ok {
			numeric[string(kind)+"_clarity"] = seg.Clarity
			numeric[string(kind)+"_pacing"] = seg.Pacing
			numeric[string(kind)+"_duration"] = seg.Duration()
		}
	}
	labels := map[string]string{}
	if profile.HookType != "" {
		labels["hook_type"] = string(profile.HookType)
	}
	return FeatureVector{Numeric: numeric, Labels: labels}
}
