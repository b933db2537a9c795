package batch

import (
	"context"
	"log/slog"

	"reelscore/internal/logging"
	"reelscore/internal/patterns"
)

// loadSnapshot builds the pattern snapshot for this run. Store trouble or
// broken definitions reduce to an empty or smaller snapshot; matching is an
// enrichment, never a reason to abort a batch.
func (o *Orchestrator) loadSnapshot(ctx context.Context, logger *slog.Logger) *patterns.Snapshot {
	rows, version, err := o.store.LoadPatterns(ctx)
	if err != nil {
		logger.Warn("pattern definitions unavailable", logging.Error(err),
			logging.String(logging.FieldEventType, "pattern_load_failed"),
			logging.String(logging.FieldImpact, "videos analyzed without pattern matching"),
		)
		snapshot, _ := patterns.NewSnapshot(0, nil, o.patternGate())
		return snapshot
	}

	defs := make([]patterns.Definition, 0, len(rows))
	for _, row := range rows {
		conditions, err := patterns.ParsePredicate([]byte(row.PredicateJSON))
		if err != nil {
			logger.Warn("skipping pattern with malformed predicate", logging.Error(err),
				logging.String(logging.FieldEventType, "pattern_predicate_invalid"),
				logging.String("pattern_id", row.PatternID),
				logging.String(logging.FieldErrorHint, "repair or remove the stored predicate"),
			)
			continue
		}
		defs = append(defs, patterns.Definition{
			ID:         row.PatternID,
			Name:       row.Name,
			Confidence: row.Confidence,
			SampleSize: row.SampleSize,
			Conditions: conditions,
		})
	}

	snapshot, skipped := patterns.NewSnapshot(version, defs, o.patternGate())
	for _, err := range skipped {
		logger.Warn("skipping unusable pattern", logging.Error(err),
			logging.String(logging.FieldEventType, "pattern_skipped"),
		)
	}
	return snapshot
}

func (o *Orchestrator) patternGate() patterns.Gate {
	return patterns.Gate{
		MinConfidence: o.cfg.Scoring.MinPatternConfidence,
		MinSamples:    o.cfg.Scoring.MinPatternSamples,
	}
}
