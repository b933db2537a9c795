package batch

import (
	"log/slog"
	"sync"
	"time"

	"reelscore/internal/logging"
)

// tracker reports batch progress with an ETA from the rolling average
// per-video duration.
type tracker struct {
	mu    sync.Mutex
	total int
	done  int
	start time.Time
}

func newTracker(total int, start time.Time) *tracker {
	return &tracker{total: total, start: start}
}

func (t *tracker) complete(logger *slog.Logger, outcome Outcome) {
	t.mu.Lock()
	t.done++
	done := t.done
	total := t.total
	elapsed := time.Since(t.start)
	t.mu.Unlock()

	var eta time.Duration
	if done > 0 && done < total {
		perVideo := elapsed / time.Duration(done)
		eta = perVideo * time.Duration(total-done)
	}

	logger.Info("batch progress",
		logging.String(logging.FieldEventType, "batch_progress"),
		logging.String(logging.FieldVideoID, outcome.VideoID),
		logging.Int("completed", done),
		logging.Int("total", total),
		logging.Duration("eta", eta),
	)
}
