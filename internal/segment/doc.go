// Package segment partitions an aligned timeline into the narrative
// hook / context / payload / payoff / cta sequence using a deterministic
// rule machine over word and frame cues. The output always covers
// [0, duration] with ordered, non-overlapping segments.
package segment
