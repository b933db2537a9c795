package frames

// ShotType classifies camera framing.
type ShotType string

const (
	ShotCloseUp      ShotType = "close_up"
	ShotMedium       ShotType = "medium"
	ShotWide         ShotType = "wide"
	ShotScreenRecord ShotType = "screen_record"
	// ShotUnknown marks frames the vision collaborator never classified.
	// Downstream scorers must treat it as missing data, not as any shot.
	ShotUnknown ShotType = "unknown"
)

// Flag is a tri-state boolean for vision-model observations. The zero value
// is FlagUnknown so missing model output never reads as false.
type Flag int

const (
	FlagUnknown Flag = iota
	FlagFalse
	FlagTrue
)

// Bool collapses the flag for callers that already handled FlagUnknown.
func (f Flag) Bool() bool { return f == FlagTrue }

// Known reports whether the flag carries real model output.
func (f Flag) Known() bool { return f != FlagUnknown }

// InterruptType tags the kind of abrupt visual change.
type InterruptType string

const (
	InterruptNone       InterruptType = ""
	InterruptZoom       InterruptType = "zoom"
	InterruptCut        InterruptType = "cut"
	InterruptColorShift InterruptType = "color-shift"
)

// Event is one annotated sampled frame. Times are strictly increasing within
// a video.
type Event struct {
	VideoID       string
	Time          float64
	Shot          ShotType
	Face          Flag
	EyeContact    Flag
	TextOverlay   string
	Objects       []string
	Interrupt     bool
	InterruptType InterruptType
	Clutter       float64 // [0,1]
	Brightness    float64 // [0,1]
	Motion        float64 // [0,1]
	// VisionKnown is false when the event carries pixel heuristics only.
	VisionKnown bool
}
