package batch_test

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"testing"

	"reelscore/internal/batch"
	"reelscore/internal/frames"
	"reelscore/internal/logging"
	"reelscore/internal/store"
	"reelscore/internal/testsupport"
	"reelscore/internal/words"
)

const sampleScript = "Stop wasting money on bad ads every single day " +
	"I doubled revenue for twenty clients with this system " +
	"First write one hook Second test it daily Third keep the winner " +
	"Comment GROWTH below and follow for part two"

func goodInput(videoID string) batch.Input {
	return batch.Input{
		VideoID:    videoID,
		Title:      "Ad spend fix",
		Platform:   "tiktok",
		Transcript: testsupport.Transcript(videoID, sampleScript, 0.5),
		Frames: testsupport.SolidSource([]color.RGBA{
			{R: 40, G: 40, B: 40, A: 255},
			{R: 45, G: 45, B: 45, A: 255},
			{R: 50, G: 50, B: 50, A: 255},
			{R: 55, G: 55, B: 55, A: 255},
		}, 2.0),
	}
}

func corruptInput(videoID string) batch.Input {
	transcript := testsupport.Transcript(videoID, sampleScript, 0.5)
	for i := range transcript.Words {
		transcript.Words[i].Timed = false
	}
	return batch.Input{
		VideoID:    videoID,
		Platform:   "tiktok",
		Transcript: transcript,
		Frames:     testsupport.SolidSource([]color.RGBA{{R: 40, G: 40, B: 40, A: 255}}, 2.0),
	}
}

func TestRunAnalyzesBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	orch := batch.New(cfg, st, logging.NewNop(), nil, nil)

	ctx := context.Background()
	inputs := []batch.Input{goodInput("vid-0"), goodInput("vid-1"), goodInput("vid-2")}

	summary, err := orch.Run(ctx, inputs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 3 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v, want 3 succeeded", summary)
	}
	if len(summary.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(summary.Outcomes))
	}

	for i := 0; i < 3; i++ {
		videoID := fmt.Sprintf("vid-%d", i)
		video, err := st.GetByVideoID(ctx, videoID)
		if err != nil {
			t.Fatalf("GetByVideoID failed: %v", err)
		}
		if video == nil || video.Status != store.StatusCompleted {
			t.Fatalf("video %s not completed: %#v", videoID, video)
		}
		if video.AnalysisJSON == "" {
			t.Fatalf("video %s missing analysis payload", videoID)
		}
		if video.BatchID != summary.BatchID {
			t.Fatalf("video %s batch id = %q, want %q", videoID, video.BatchID, summary.BatchID)
		}
		score, _, ok, err := st.GetPreScore(ctx, videoID)
		if err != nil || !ok {
			t.Fatalf("pre score missing for %s: ok=%v err=%v", videoID, ok, err)
		}
		if score < 0 || score > 100 {
			t.Fatalf("pre score out of range: %d", score)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	orch := batch.New(cfg, st, logging.NewNop(), nil, nil)

	ctx := context.Background()
	inputs := make([]batch.Input, 0, 10)
	for i := 0; i < 9; i++ {
		inputs = append(inputs, goodInput(fmt.Sprintf("vid-%d", i)))
	}
	inputs = append(inputs, corruptInput("vid-corrupt"))

	summary, err := orch.Run(ctx, inputs)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 9 {
		t.Fatalf("succeeded = %d, want 9", summary.Succeeded)
	}
	if summary.Failed != 1 {
		t.Fatalf("failed = %d, want 1", summary.Failed)
	}

	video, err := st.GetByVideoID(ctx, "vid-corrupt")
	if err != nil {
		t.Fatalf("GetByVideoID failed: %v", err)
	}
	if video == nil || video.Status != store.StatusFailed {
		t.Fatalf("corrupt video status: %#v", video)
	}
	if video.ErrorKind != "incomplete_transcript" {
		t.Fatalf("error kind = %q, want incomplete_transcript", video.ErrorKind)
	}
}

func TestRunSkipsUnchangedContent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.UpsertPattern(ctx, store.PatternRow{
		PatternID:     "p-any",
		Name:          "Any analyzed video",
		Confidence:    0.9,
		SampleSize:    20,
		PredicateJSON: `[{"feature":"pre_score","min":0}]`,
		Version:       1,
	}); err != nil {
		t.Fatalf("UpsertPattern failed: %v", err)
	}

	orch := batch.New(cfg, st, logging.NewNop(), nil, nil)
	first := goodInput("vid-original")
	first.ContentHash = "hash-shared"
	if summary, err := orch.Run(ctx, []batch.Input{first}); err != nil || summary.Succeeded != 1 {
		t.Fatalf("first run: summary=%+v err=%v", summary, err)
	}
	originalScore, _, ok, err := st.GetPreScore(ctx, "vid-original")
	if err != nil || !ok {
		t.Fatalf("original pre score missing: ok=%v err=%v", ok, err)
	}

	second := goodInput("vid-repost")
	second.ContentHash = "hash-shared"
	summary, err := orch.Run(ctx, []batch.Input{second})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Skipped != 1 || summary.Succeeded != 0 {
		t.Fatalf("summary = %+v, want one skipped", summary)
	}

	video, err := st.GetByVideoID(ctx, "vid-repost")
	if err != nil {
		t.Fatalf("GetByVideoID failed: %v", err)
	}
	if video == nil || video.Status != store.StatusCompleted || video.AnalysisJSON == "" {
		t.Fatalf("skipped video should carry the prior analysis: %#v", video)
	}

	repostScore, _, ok, err := st.GetPreScore(ctx, "vid-repost")
	if err != nil || !ok {
		t.Fatalf("skipped video should answer pre score lookups: ok=%v err=%v", ok, err)
	}
	if repostScore != originalScore {
		t.Fatalf("repost score = %d, want %d from the original", repostScore, originalScore)
	}
	matches, err := st.MatchesForVideo(ctx, "vid-repost")
	if err != nil {
		t.Fatalf("MatchesForVideo failed: %v", err)
	}
	if len(matches) != 1 || matches[0].PatternID != "p-any" {
		t.Fatalf("skipped video should carry the prior matches: %+v", matches)
	}
	if summary.Outcomes[0].PreScore != originalScore || summary.Outcomes[0].Matches != 1 {
		t.Fatalf("skip outcome missing copied results: %+v", summary.Outcomes[0])
	}
}

// stoppingSource cancels the run when its first frame is requested, then
// serves frames normally.
type stoppingSource struct {
	inner  frames.Source
	cancel context.CancelFunc
	fired  bool
}

func (s *stoppingSource) Next(ctx context.Context) (frames.Sample, error) {
	if !s.fired {
		s.fired = true
		s.cancel()
	}
	return s.inner.Next(ctx)
}

func TestRunStopsBetweenVideos(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	st := testsupport.MustOpenStore(t, cfg)
	orch := batch.New(cfg, st, logging.NewNop(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := goodInput("vid-first")
	first.Frames = &stoppingSource{inner: first.Frames, cancel: cancel}
	inputs := []batch.Input{first, goodInput("vid-queued-1"), goodInput("vid-queued-2")}

	summary, err := orch.Run(ctx, inputs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if summary.Succeeded != 1 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v, want the in-flight video to finish", summary)
	}
	if len(summary.Outcomes) != 1 || summary.Outcomes[0].VideoID != "vid-first" {
		t.Fatalf("outcomes = %+v, want vid-first only", summary.Outcomes)
	}

	bg := context.Background()
	video, err := st.GetByVideoID(bg, "vid-first")
	if err != nil {
		t.Fatalf("GetByVideoID failed: %v", err)
	}
	if video == nil || video.Status != store.StatusCompleted {
		t.Fatalf("in-flight video should reach a terminal state: %#v", video)
	}
	for _, queued := range []string{"vid-queued-1", "vid-queued-2"} {
		row, err := st.GetByVideoID(bg, queued)
		if err != nil {
			t.Fatalf("GetByVideoID failed: %v", err)
		}
		if row != nil {
			t.Fatalf("queued video %s should never start: %#v", queued, row)
		}
	}
	stranded, err := st.List(bg, store.StatusExtracting, store.StatusAligning, store.StatusScoring)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(stranded) != 0 {
		t.Fatalf("videos stranded mid-pipeline: %+v", stranded)
	}
}

func TestRunPersistsFailureAfterCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(1))
	st := testsupport.MustOpenStore(t, cfg)
	orch := batch.New(cfg, st, logging.NewNop(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bad := corruptInput("vid-bad")
	bad.Frames = &stoppingSource{inner: bad.Frames, cancel: cancel}

	summary, err := orch.Run(ctx, []batch.Input{bad})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v, want one failure", summary)
	}

	video, err := st.GetByVideoID(context.Background(), "vid-bad")
	if err != nil {
		t.Fatalf("GetByVideoID failed: %v", err)
	}
	if video == nil || video.Status != store.StatusFailed {
		t.Fatalf("failure should persist past cancellation: %#v", video)
	}
	if video.ErrorKind == "" || video.ErrorMessage == "" {
		t.Fatalf("failed video missing error detail: %#v", video)
	}
}

func TestRunMatchesStoredPatterns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := st.UpsertPattern(ctx, store.PatternRow{
		PatternID:     "p-any",
		Name:          "Any analyzed video",
		Confidence:    0.9,
		SampleSize:    20,
		PredicateJSON: `[{"feature":"pre_score","min":0}]`,
		Version:       1,
	}); err != nil {
		t.Fatalf("UpsertPattern failed: %v", err)
	}

	orch := batch.New(cfg, st, logging.NewNop(), nil, nil)
	if summary, err := orch.Run(ctx, []batch.Input{goodInput("vid-match")}); err != nil || summary.Succeeded != 1 {
		t.Fatalf("Run: summary=%+v err=%v", summary, err)
	}

	matches, err := st.MatchesForVideo(ctx, "vid-match")
	if err != nil {
		t.Fatalf("MatchesForVideo failed: %v", err)
	}
	if len(matches) != 1 || matches[0].PatternID != "p-any" || matches[0].SnapshotVersion != 1 {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestTranscriptFixtureIsTimed(t *testing.T) {
	transcript := testsupport.Transcript("vid", "one two three", 0.5)
	if len(transcript.Words) != 3 {
		t.Fatalf("got %d words", len(transcript.Words))
	}
	for i, w := range transcript.Words {
		if !w.Timed {
			t.Fatalf("word %d untimed", i)
		}
	}
	if _, _, err := words.Extract(transcript, words.Options{}); err != nil {
		t.Fatalf("fixture transcript should extract cleanly: %v", err)
	}
}
