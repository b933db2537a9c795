package services

// Pipeline stage names, used in wrapped errors, log attributes, and the
// per-video progress records.
const (
	StageWords    = "words"
	StageFrames   = "frames"
	StageAlign    = "align"
	StageSegment  = "segment"
	StagePsych    = "psych"
	StageScoring  = "scoring"
	StagePatterns = "patterns"
)
