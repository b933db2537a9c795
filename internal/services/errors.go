package services

import (
	"errors"
	"fmt"
	"strings"

	"reelscore/internal/store"
)

var (
	// ErrIncompleteTranscript marks transcripts with too many missing or
	// non-monotonic word timestamps to analyze.
	ErrIncompleteTranscript = errors.New("incomplete transcript")
	// ErrFrameSourceUnavailable marks vision-collaborator outages. Frame
	// extraction degrades to pixel heuristics instead of failing.
	ErrFrameSourceUnavailable = errors.New("frame source unavailable")
	// ErrInsufficientPeerData marks percentile requests over too small a
	// peer set. Callers surface "unavailable" rather than a number.
	ErrInsufficientPeerData = errors.New("insufficient peer data")
	// ErrPatternPredicate marks a malformed pattern definition. The matcher
	// skips the pattern and continues.
	ErrPatternPredicate = errors.New("pattern predicate error")

	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later status classification. The marker should
// be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a pipeline error to the analysis status the orchestrator
// should persist after a video fails. Validation and configuration problems
// need operator attention; everything else is an ordinary failure.
func FailureStatus(err error) store.Status {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return store.StatusReview
	default:
		return store.StatusFailed
	}
}

// ErrorKind returns the short classification string recorded alongside a
// failed video so dashboards can distinguish "bad content" from "could not
// be measured".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrIncompleteTranscript):
		return "incomplete_transcript"
	case errors.Is(err, ErrFrameSourceUnavailable):
		return "frame_source_unavailable"
	case errors.Is(err, ErrInsufficientPeerData):
		return "insufficient_peer_data"
	case errors.Is(err, ErrPatternPredicate):
		return "pattern_predicate"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "transient"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "unknown operation"
	}
	return strings.Join(parts, ": ")
}
