package timeline

import (
	"sort"

	"reelscore/internal/frames"
	"reelscore/internal/words"
)

const defaultWordTolerance = 0.75

// Context answers "what was said and shown at time t".
type Context struct {
	// Words are the word events within the tolerance window around t,
	// ordered by start time.
	Words []words.Event
	// Frame is the nearest sampled frame, or nil when no frames exist.
	Frame *frames.Event
}

// Timeline merges word and frame events for one video onto a single
// monotonic time axis. Queries are O(log n) binary searches over the sorted
// event times.
type Timeline struct {
	words     []words.Event
	frames    []frames.Event
	tolerance float64
}

// New builds a timeline from extractor output. Inputs are defensively sorted
// since both extractors already guarantee order. A non-positive tolerance
// falls back to the package default.
func New(wordEvents []words.Event, frameEvents []frames.Event, toleranceSeconds float64) *Timeline {
	if toleranceSeconds <= 0 {
		toleranceSeconds = defaultWordTolerance
	}
	sortedWords := append([]words.Event(nil), wordEvents...)
	sort.SliceStable(sortedWords, func(i, j int) bool { return sortedWords[i].Start < sortedWords[j].Start })
	sortedFrames := append([]frames.Event(nil), frameEvents...)
	sort.SliceStable(sortedFrames, func(i, j int) bool { return sortedFrames[i].Time < sortedFrames[j].Time })
	return &Timeline{words: sortedWords, frames: sortedFrames, tolerance: toleranceSeconds}
}

// Words returns all word events in order.
func (t *Timeline) Words() []words.Event { return t.words }

// Frames returns all frame events in order.
func (t *Timeline) Frames() []frames.Event { return t.frames }

// ContextAt returns the nearest word(s) within the tolerance window and the
// nearest frame at time at. Frame ties break toward the earlier timestamp.
func (t *Timeline) ContextAt(at float64) Context {
	return Context{
		Words: t.wordsNear(at),
		Frame: t.nearestFrame(at),
	}
}

// WordsBetween returns word events whose midpoint falls inside [start, end).
func (t *Timeline) WordsBetween(start, end float64) []words.Event {
	lo := sort.Search(len(t.words), func(i int) bool {
		return midpoint(t.words[i]) >= start
	})
	hi := lo
	for hi < len(t.words) && midpoint(t.words[hi]) < end {
		hi++
	}
	return t.words[lo:hi]
}

// FramesBetween returns frame events with start <= Time < end.
func (t *Timeline) FramesBetween(start, end float64) []frames.Event {
	lo := sort.Search(len(t.frames), func(i int) bool {
		return t.frames[i].Time >= start
	})
	hi := lo
	for hi < len(t.frames) && t.frames[hi].Time < end {
		hi++
	}
	return t.frames[lo:hi]
}

func (t *Timeline) wordsNear(at float64) []words.Event {
	if len(t.words) == 0 {
		return nil
	}
	// First word whose midpoint is at or past the query point.
	pivot := sort.Search(len(t.words), func(i int) bool {
		return midpoint(t.words[i]) >= at
	})

	lo := pivot
	for lo > 0 && at-midpoint(t.words[lo-1]) <= t.tolerance {
		lo--
	}
	hi := pivot
	for hi < len(t.words) && midpoint(t.words[hi])-at <= t.tolerance {
		hi++
	}
	if lo == hi {
		return nil
	}
	return t.words[lo:hi]
}

func (t *Timeline) nearestFrame(at float64) *frames.Event {
	if len(t.frames) == 0 {
		return nil
	}
	idx := sort.Search(len(t.frames), func(i int) bool {
		return t.frames[i].Time >= at
	})
	if idx == 0 {
		return &t.frames[0]
	}
	if idx == len(t.frames) {
		return &t.frames[len(t.frames)-1]
	}
	before := &t.frames[idx-1]
	after := &t.frames[idx]
	// Ties break toward the earlier timestamp.
	if at-before.Time <= after.Time-at {
		return before
	}
	return after
}

func midpoint(event words.Event) float64 {
	return (event.Start + event.End) / 2
}
