// Package timeline aligns word and frame events onto one monotonic time axis
// and answers "what was said and shown at time t" in logarithmic time. It is
// the single correlation point the segmenter and scorers use.
package timeline
