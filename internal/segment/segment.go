package segment

// Type names a narrative segment.
type Type string

const (
	TypeHook    Type = "hook"
	TypeContext Type = "context"
	TypePayload Type = "payload"
	TypePayoff  Type = "payoff"
	TypeCTA     Type = "cta"
)

// HookType names how the opening seconds try to stop the scroll.
type HookType string

const (
	HookPatternInterrupt HookType = "pattern_interrupt"
	HookQuestion         HookType = "question"
	HookPain             HookType = "pain"
	HookStory            HookType = "story"
	HookPromise          HookType = "promise"
)

// Segment is one contiguous narrative span. Segments for a video are ordered,
// non-overlapping, and together cover [0, duration].
type Segment struct {
	VideoID string
	Type    Type
	Start   float64
	End     float64
	// Clarity is the inverse of average visual clutter in range, [0,1].
	Clarity float64
	// Pacing is normalized words-per-minute in range, [0,1].
	Pacing float64
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Result is the full segmentation of one video.
type Result struct {
	Segments []Segment
	Hook     HookType
}

// ByType returns the first segment of the given type, if present.
func (r Result) ByType(t Type) (Segment, bool) {
	for _, seg := range r.Segments {
		if seg.Type == t {
			return seg, true
		}
	}
	return Segment{}, false
}
