package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelscore/internal/config"
	"reelscore/internal/frames"
	"reelscore/internal/logging"
	"reelscore/internal/patterns"
	"reelscore/internal/psych"
	"reelscore/internal/segment"
	"reelscore/internal/store"
	"reelscore/internal/words"
)

// Input is one video queued for analysis. ContentHash, when set, is the
// checksum of the source material and enables skipping unchanged content.
type Input struct {
	VideoID         string
	Title           string
	Platform        string
	ContentType     string
	ContentHash     string
	DurationSeconds float64
	Transcript      words.Transcript
	Frames          frames.Source
}

// Outcome records how one video fared. Failures are isolated: one bad video
// never aborts the batch.
type Outcome struct {
	VideoID  string
	Status   store.Status
	PreScore int
	Matches  int
	Skipped  bool
	Err      string
}

// Summary aggregates a finished batch run.
type Summary struct {
	BatchID         string
	Total           int
	Succeeded       int
	Skipped         int
	Failed          int
	Duration        time.Duration
	VideosPerMinute float64
	Outcomes        []Outcome
}

// Orchestrator fans a batch of videos across a fixed worker pool and runs
// the full analysis pipeline on each.
type Orchestrator struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	vision frames.Vision
	cache  frames.ObservationCache
}

// New constructs an orchestrator. Vision and cache may be nil; analysis then
// carries pixel heuristics only.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, vision frames.Vision, cache frames.ObservationCache) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		store:  st,
		logger: logging.NewComponentLogger(logger, "batch"),
		vision: vision,
		cache:  cache,
	}
}

// Run processes every input and returns the aggregated summary. Cancellation
// is cooperative and checked between videos only: in-flight videos run to
// completion, queued videos never start, and the summary covers whatever
// finished.
func (o *Orchestrator) Run(ctx context.Context, inputs []Input) (Summary, error) {
	batchID := uuid.NewString()
	start := time.Now()
	logger := o.logger.With(logging.String(logging.FieldBatchID, batchID))

	snapshot := o.loadSnapshot(ctx, logger)
	limiter := NewVisionLimiter(o.cfg.Batch.VisionRatePerSecond, o.cfg.Batch.VisionBurst)
	workers := o.cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) && len(inputs) > 0 {
		workers = len(inputs)
	}

	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.Int("videos", len(inputs)),
		logging.Int("workers", workers),
		logging.Int("usable_patterns", snapshot.Len()),
	)

	jobs := make(chan Input)
	results := make(chan Outcome, len(inputs))
	progress := newTracker(len(inputs), start)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for input := range jobs {
				if ctx.Err() != nil {
					return
				}
				// A video that has started must reach a terminal state;
				// cancellation mid-video would strand its row in a
				// processing status.
				outcome := o.processVideo(context.WithoutCancel(ctx), batchID, snapshot, limiter, input)
				progress.complete(logger, outcome)
				results <- outcome
			}
		}()
	}

feed:
	for _, input := range inputs {
		select {
		case jobs <- input:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	summary := Summary{BatchID: batchID, Total: len(inputs)}
	for outcome := range results {
		summary.Outcomes = append(summary.Outcomes, outcome)
		switch {
		case outcome.Skipped:
			summary.Skipped++
		case outcome.Status == store.StatusCompleted:
			summary.Succeeded++
		default:
			summary.Failed++
		}
	}
	summary.Duration = time.Since(start)
	if minutes := summary.Duration.Minutes(); minutes > 0 {
		summary.VideosPerMinute = float64(summary.Succeeded+summary.Skipped+summary.Failed) / minutes
	}

	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_complete"),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration),
	)
	return summary, ctx.Err()
}

// Analysis is the serialized result stored per completed video.
type Analysis struct {
	Segments        []segment.Segment `json:"segments"`
	Hook            segment.HookType  `json:"hook"`
	Profile         psych.Score       `json:"profile"`
	PreScore        int               `json:"pre_score"`
	SnapshotVersion int               `json:"snapshot_version,omitempty"`
	Matches         []patterns.Match  `json:"matches,omitempty"`
}

// cuesExtra maps operator cue extensions onto the lexicon input.
func cuesExtra(cues config.Cues) words.Extra {
	return words.Extra{
		Hook:       cues.Hook,
		PainPoint:  cues.PainPoint,
		Step:       cues.Step,
		Proof:      cues.Proof,
		CTA:        cues.CTA,
		Identity:   cues.Identity,
		Enemy:      cues.Enemy,
		Credential: cues.Credential,
		Stakes:     cues.Stakes,
	}
}
