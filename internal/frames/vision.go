package frames

import (
	"context"
	"image"
)

// Observation is the fixed-shape result every vision collaborator must map
// its provider-specific response onto. Fields default to explicit unknown
// sentinels so scorers never mistake missing output for a negative signal.
type Observation struct {
	Shot        ShotType `json:"shot"`
	Face        Flag     `json:"face"`
	EyeContact  Flag     `json:"eye_contact"`
	TextOverlay string   `json:"text_overlay"`
	Objects     []string `json:"objects"`
}

// UnknownObservation is the degraded-mode placeholder used when the vision
// collaborator is unavailable.
func UnknownObservation() Observation {
	return Observation{Shot: ShotUnknown}
}

// Vision is the external shot-classification collaborator. Implementations
// wrap a remote model; OCR and object-detection strings are stored verbatim
// with no semantic interpretation here.
type Vision interface {
	Classify(ctx context.Context, contentHash string, frame image.Image) (Observation, error)
}

// Sample is one decoded frame delivered by the external sampler.
type Sample struct {
	Time  float64
	Image image.Image
}

// Source yields samples in strictly increasing time order and returns io.EOF
// when the clip is exhausted.
type Source interface {
	Next(ctx context.Context) (Sample, error)
}

// Waiter gates external model calls. The batch orchestrator passes its shared
// token bucket; a nil Waiter means unlimited.
type Waiter interface {
	Wait(ctx context.Context) error
}
