package store

import (
	"strings"
	"time"
)

// Status represents the analysis lifecycle of a tracked video.
type Status string

const (
	StatusPending    Status = "pending"
	StatusExtracting Status = "extracting"
	StatusAligning   Status = "aligning"
	StatusScoring    Status = "scoring"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	// StatusReview marks videos whose inputs need operator attention before
	// a retry makes sense, such as validation or configuration problems.
	StatusReview Status = "review"
)

var allStatuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusAligning,
	StatusScoring,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusExtracting: {},
	StatusAligning:   {},
	StatusScoring:    {},
}

// Video is one tracked piece of content persisted in SQLite. AnalysisJSON
// holds the serialized segmentation, psychology profile, and pattern matches
// for completed videos.
type Video struct {
	ID              int64
	VideoID         string
	Title           string
	Platform        string
	ContentType     string
	DurationSeconds float64
	ContentHash     string
	Status          Status
	ErrorMessage    string
	ErrorKind       string
	NeedsReview     bool
	ReviewReason    string
	ProgressStage   string
	ProgressPercent float64
	ProgressMessage string
	AnalysisJSON    string
	BatchID         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Metrics is one checkback snapshot of platform numbers, append-only.
type Metrics struct {
	ID          int64
	PostID      string
	VideoID     string
	Platform    string
	ContentType string
	Followers   int64
	Views       int64
	Likes       int64
	Comments    int64
	Shares      int64
	Saves       int64
	PostedAt    time.Time
	ObservedAt  time.Time
}

// PostScoreRow is one computed post-publish score, append-only so score
// history per post is preserved across checkbacks.
type PostScoreRow struct {
	ID             int64
	PostID         string
	Platform       string
	ContentType    string
	Score          float64
	SizeRatio      float64
	EngagementRate float64
	DecayWeight    float64
	Percentile     *float64
	PeerSetSize    int
	ObservedAt     time.Time
	ComputedAt     time.Time
}

// PatternRow is a stored pattern definition. PredicateJSON stays opaque to
// the store; the matcher parses and validates it.
type PatternRow struct {
	PatternID     string
	Name          string
	Confidence    float64
	SampleSize    int
	PredicateJSON string
	Version       int
	UpdatedAt     time.Time
}

// MatchRow records that a video satisfied a pattern under one snapshot.
type MatchRow struct {
	VideoID         string
	PatternID       string
	Strength        float64
	SnapshotVersion int
	ComputedAt      time.Time
}

// HealthSummary describes aggregated video counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Review     int
	Failed     int
	Completed  int
}

// DatabaseHealth captures diagnostic information about the store database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalVideos      int
	Error            string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessingStatus reports whether a status reflects an in-flight analysis.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsProcessing returns true when the video is mid-analysis.
func (v Video) IsProcessing() bool {
	return IsProcessingStatus(v.Status)
}

// SetProgress updates all three progress fields together.
func (v *Video) SetProgress(stage, message string, percent float64) {
	v.ProgressStage = stage
	v.ProgressMessage = message
	v.ProgressPercent = percent
}

// SetFailed marks the video as failed with the given message and kind.
func (v *Video) SetFailed(message, kind string) {
	v.Status = StatusFailed
	v.ErrorMessage = message
	v.ErrorKind = kind
	v.ProgressPercent = 0
	v.ProgressMessage = message
}

// SetReview parks the video for operator attention.
func (v *Video) SetReview(reason, kind string) {
	v.Status = StatusReview
	v.NeedsReview = true
	v.ReviewReason = reason
	v.ErrorKind = kind
}
