package words

// SpeechFunction classifies what a word is doing in the script.
type SpeechFunction string

const (
	FunctionHook      SpeechFunction = "hook"
	FunctionProof     SpeechFunction = "proof"
	FunctionStep      SpeechFunction = "step"
	FunctionPainPoint SpeechFunction = "pain_point"
	FunctionCTA       SpeechFunction = "cta"
	FunctionNeutral   SpeechFunction = "neutral"
)

// TimedWord is the collaborator input: one transcript word with optional
// timestamps. Timed is false when the transcription service could not align
// the word.
type TimedWord struct {
	Text  string
	Start float64
	End   float64
	Timed bool
}

// Transcript is the full collaborator payload for one video.
type Transcript struct {
	VideoID string
	Words   []TimedWord
}

// Event is one annotated word on the video timeline. Events are ordered by
// Start and never overlap within a video.
type Event struct {
	VideoID      string
	Index        int
	Text         string
	Start        float64
	End          float64
	Function     SpeechFunction
	Emphasis     bool
	Sentiment    float64 // [-1,1]
	Question     bool
	Interpolated bool
}

// Duration returns the spoken duration of the word in seconds.
func (e Event) Duration() float64 {
	if e.End <= e.Start {
		return 0
	}
	return e.End - e.Start
}
