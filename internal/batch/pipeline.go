package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"reelscore/internal/frames"
	"reelscore/internal/logging"
	"reelscore/internal/patterns"
	"reelscore/internal/psych"
	"reelscore/internal/scoring"
	"reelscore/internal/segment"
	"reelscore/internal/services"
	"reelscore/internal/store"
	"reelscore/internal/timeline"
	"reelscore/internal/words"
)

func (o *Orchestrator) processVideo(ctx context.Context, batchID string, snapshot *patterns.Snapshot, limiter *VisionLimiter, input Input) Outcome {
	ctx = services.WithBatchID(services.WithVideoID(ctx, input.VideoID), batchID)
	logger := o.logger.With(logging.String(logging.FieldVideoID, input.VideoID))

	video, err := o.ensureVideo(ctx, batchID, input)
	if err != nil {
		logger.Error("video row unavailable", logging.Error(err),
			logging.String(logging.FieldEventType, "video_row_failed"),
			logging.String(logging.FieldErrorHint, "check store database access"),
		)
		return Outcome{VideoID: input.VideoID, Status: store.StatusFailed, Err: err.Error()}
	}

	if outcome, skipped := o.trySkip(ctx, logger, video, input); skipped {
		return outcome
	}

	video.Status = store.StatusExtracting
	video.SetProgress(services.StageWords, "extracting timelines", 10)
	if err := o.store.Update(ctx, video); err != nil {
		return o.fail(ctx, logger, video, fmt.Errorf("persist extracting transition: %w", err))
	}

	wordEvents, pacing, frameEvents, err := o.extractTimelines(ctx, limiter, input)
	if err != nil {
		return o.fail(ctx, logger, video, err)
	}

	video.Status = store.StatusAligning
	video.SetProgress(services.StageAlign, "aligning timelines", 45)
	if err := o.store.Update(ctx, video); err != nil {
		return o.fail(ctx, logger, video, fmt.Errorf("persist aligning transition: %w", err))
	}

	duration := clipDuration(input, wordEvents, frameEvents)
	tl := timeline.New(wordEvents, frameEvents, o.cfg.Analysis.WordToleranceSeconds)
	segments, err := segment.Build(tl, input.VideoID, duration, pacing)
	if err != nil {
		return o.fail(ctx, logger, video, services.Wrap(services.ErrValidation, services.StageSegment, "build", "", err))
	}

	video.Status = store.StatusScoring
	video.SetProgress(services.StageScoring, "scoring", 75)
	if err := o.store.Update(ctx, video); err != nil {
		return o.fail(ctx, logger, video, fmt.Errorf("persist scoring transition: %w", err))
	}

	lexicon := words.NewLexicon(cuesExtra(o.cfg.Cues))
	profile := psych.Compute(input.VideoID, segments, tl, lexicon, psych.Weights{
		Focus:     o.cfg.Weights.Focus,
		Authority: o.cfg.Weights.Authority,
		Tribe:     o.cfg.Weights.Tribe,
		Emotion:   o.cfg.Weights.Emotion,
	})
	pre := scoring.ComputePre(input.VideoID, segments, profile, scoring.PreWeights{
		HookStrength:   o.cfg.Weights.PreHookStrength,
		FATECombined:   o.cfg.Weights.PreFateCombined,
		PayloadClarity: o.cfg.Weights.PrePayloadClarity,
		CTAClarity:     o.cfg.Weights.PreCTAClarity,
	})
	if err := o.store.SavePreScore(ctx, input.VideoID, pre.Score, pre.Confidence); err != nil {
		return o.fail(ctx, logger, video, fmt.Errorf("persist pre score: %w", err))
	}

	matches := snapshot.Match(patterns.BuildVector(profile, segments, pre))
	rows := make([]store.MatchRow, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, store.MatchRow{
			VideoID:         input.VideoID,
			PatternID:       m.PatternID,
			Strength:        m.Strength,
			SnapshotVersion: snapshot.Version(),
		})
	}
	if err := o.store.ReplaceMatches(ctx, input.VideoID, rows); err != nil {
		return o.fail(ctx, logger, video, fmt.Errorf("persist matches: %w", err))
	}

	analysisJSON, err := json.Marshal(Analysis{
		Segments:        segments.Segments,
		Hook:            segments.Hook,
		Profile:         profile,
		PreScore:        pre.Score,
		SnapshotVersion: snapshot.Version(),
		Matches:         matches,
	})
	if err != nil {
		return o.fail(ctx, logger, video, fmt.Errorf("marshal analysis: %w", err))
	}

	video.Status = store.StatusCompleted
	video.DurationSeconds = duration
	video.ContentHash = input.ContentHash
	video.AnalysisJSON = string(analysisJSON)
	video.SetProgress("completed", "analysis complete", 100)
	if err := o.store.Update(ctx, video); err != nil {
		return o.fail(ctx, logger, video, fmt.Errorf("persist completion: %w", err))
	}

	logger.Info("video analyzed",
		logging.String(logging.FieldEventType, "video_complete"),
		logging.Int("pre_score", pre.Score),
		logging.String("hook_type", string(profile.HookType)),
		logging.Int("matches", len(matches)),
	)
	return Outcome{
		VideoID:  input.VideoID,
		Status:   store.StatusCompleted,
		PreScore: pre.Score,
		Matches:  len(matches),
	}
}

func (o *Orchestrator) ensureVideo(ctx context.Context, batchID string, input Input) (*store.Video, error) {
	video, err := o.store.GetByVideoID(ctx, input.VideoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		video, err = o.store.NewVideo(ctx, input.VideoID, input.Title, input.Platform)
		if err != nil {
			return nil, err
		}
	}
	video.BatchID = batchID
	if input.Title != "" {
		video.Title = input.Title
	}
	if input.Platform != "" {
		video.Platform = input.Platform
	}
	if input.ContentType != "" {
		video.ContentType = input.ContentType
	}
	return video, nil
}

// trySkip checks whether identical content was already analyzed. The prior
// analysis is copied onto this video so downstream consumers see a complete
// row without paying the extraction cost again.
func (o *Orchestrator) trySkip(ctx context.Context, logger *slog.Logger, video *store.Video, input Input) (Outcome, bool) {
	if input.ContentHash == "" {
		return Outcome{}, false
	}
	prior, err := o.store.FindCompletedByContentHash(ctx, input.ContentHash)
	if err != nil {
		logger.Warn("content hash lookup failed; analyzing anyway", logging.Error(err),
			logging.String(logging.FieldEventType, "content_hash_lookup_failed"),
		)
		return Outcome{}, false
	}
	if prior == nil {
		return Outcome{}, false
	}

	video.Status = store.StatusCompleted
	video.ContentHash = input.ContentHash
	video.DurationSeconds = prior.DurationSeconds
	video.AnalysisJSON = prior.AnalysisJSON
	video.SetProgress("completed", "unchanged content, reused prior analysis", 100)
	if err := o.store.Update(ctx, video); err != nil {
		return o.fail(ctx, logger, video, fmt.Errorf("persist skip: %w", err)), true
	}

	outcome := Outcome{VideoID: input.VideoID, Status: store.StatusCompleted, Skipped: true}

	// The pre-score and pattern matches travel with the analysis; a skipped
	// video must answer score and match lookups the same as the original.
	score, confidence, ok, err := o.store.GetPreScore(ctx, prior.VideoID)
	switch {
	case err != nil:
		logger.Warn("prior pre score lookup failed", logging.Error(err),
			logging.String(logging.FieldEventType, "skip_copy_failed"),
		)
	case ok:
		if err := o.store.SavePreScore(ctx, video.VideoID, score, confidence); err != nil {
			logger.Warn("copying pre score failed", logging.Error(err),
				logging.String(logging.FieldEventType, "skip_copy_failed"),
			)
		} else {
			outcome.PreScore = score
		}
	}
	matches, err := o.store.MatchesForVideo(ctx, prior.VideoID)
	if err != nil {
		logger.Warn("prior match lookup failed", logging.Error(err),
			logging.String(logging.FieldEventType, "skip_copy_failed"),
		)
	} else if len(matches) > 0 {
		for i := range matches {
			matches[i].VideoID = video.VideoID
		}
		if err := o.store.ReplaceMatches(ctx, video.VideoID, matches); err != nil {
			logger.Warn("copying pattern matches failed", logging.Error(err),
				logging.String(logging.FieldEventType, "skip_copy_failed"),
			)
		} else {
			outcome.Matches = len(matches)
		}
	}

	logger.Info("unchanged content skipped",
		logging.String(logging.FieldEventType, "video_skipped"),
		logging.String("prior_video", prior.VideoID),
	)
	return outcome, true
}

func (o *Orchestrator) extractTimelines(ctx context.Context, limiter *VisionLimiter, input Input) ([]words.Event, *words.PacingSeries, []frames.Event, error) {
	var (
		wg          sync.WaitGroup
		wordEvents  []words.Event
		pacing      *words.PacingSeries
		wordErr     error
		frameEvents []frames.Event
		frameErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		wordEvents, pacing, wordErr = words.Extract(input.Transcript, words.Options{
			MaxBadTimestampFraction: o.cfg.Analysis.MaxBadTimestampFraction,
			PacingWindowSeconds:     o.cfg.Analysis.PacingWindowSeconds,
			Extra:                   cuesExtra(o.cfg.Cues),
		})
	}()
	go func() {
		defer wg.Done()
		extractor := frames.NewExtractor(o.vision, o.cache, waiterOrNil(limiter), o.logger, frames.Options{
			BrightnessDelta:        o.cfg.Analysis.BrightnessDelta,
			HueDistance:            o.cfg.Analysis.HueDistance,
			MotionDelta:            o.cfg.Analysis.MotionDelta,
			InterruptWindowSeconds: o.cfg.Analysis.InterruptWindowSeconds,
		})
		frameEvents, frameErr = extractor.Extract(ctx, input.VideoID, input.Frames)
	}()
	wg.Wait()

	if wordErr != nil {
		var incomplete *words.IncompleteTranscriptError
		if errors.As(wordErr, &incomplete) {
			return nil, nil, nil, services.Wrap(services.ErrIncompleteTranscript, services.StageWords, "extract", "", wordErr)
		}
		return nil, nil, nil, services.Wrap(services.ErrValidation, services.StageWords, "extract", "", wordErr)
	}
	if frameErr != nil {
		return nil, nil, nil, services.Wrap(services.ErrFrameSourceUnavailable, services.StageFrames, "extract", "", frameErr)
	}
	return wordEvents, pacing, frameEvents, nil
}

// waiterOrNil keeps a typed-nil limiter from reaching the extractor as a
// non-nil interface.
func waiterOrNil(limiter *VisionLimiter) frames.Waiter {
	if limiter == nil {
		return nil
	}
	return limiter
}

// clipDuration prefers the declared duration and otherwise takes the last
// observed word or frame time.
func clipDuration(input Input, wordEvents []words.Event, frameEvents []frames.Event) float64 {
	if input.DurationSeconds > 0 {
		return input.DurationSeconds
	}
	duration := 0.0
	if n := len(wordEvents); n > 0 && wordEvents[n-1].End > duration {
		duration = wordEvents[n-1].End
	}
	if n := len(frameEvents); n > 0 && frameEvents[n-1].Time > duration {
		duration = frameEvents[n-1].Time
	}
	return duration
}

// fail persists the failure on the video row and builds the outcome record.
// Validation-class errors park the video for review instead of failing it.
func (o *Orchestrator) fail(ctx context.Context, logger *slog.Logger, video *store.Video, err error) Outcome {
	status := services.FailureStatus(err)
	kind := services.ErrorKind(err)
	if status == store.StatusReview {
		video.SetReview(err.Error(), kind)
	} else {
		video.SetFailed(err.Error(), kind)
	}
	// The terminal status must land even when the caller's context has
	// already been canceled.
	if updateErr := o.store.Update(context.WithoutCancel(ctx), video); updateErr != nil {
		logger.Error("failed to persist video failure", logging.Error(updateErr),
			logging.String(logging.FieldEventType, "failure_persist_failed"),
			logging.String(logging.FieldErrorHint, "check store database access"),
		)
	}

	logger.Warn("video analysis failed",
		logging.Error(err),
		logging.String(logging.FieldEventType, "video_failed"),
		logging.String("error_kind", kind),
		logging.String(logging.FieldImpact, "video excluded from batch results"),
	)
	return Outcome{VideoID: video.VideoID, Status: status, Err: err.Error()}
}
