package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UpsertPattern inserts or replaces one pattern definition.
func (s *Store) UpsertPattern(ctx context.Context, row PatternRow) error {
	if row.Version <= 0 {
		row.Version = 1
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO patterns (pattern_id, name, confidence, sample_size, predicate_json, version, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(pattern_id) DO UPDATE SET
             name = excluded.name,
             confidence = excluded.confidence,
             sample_size = excluded.sample_size,
             predicate_json = excluded.predicate_json,
             version = excluded.version,
             updated_at = excluded.updated_at`,
		row.PatternID,
		row.Name,
		row.Confidence,
		row.SampleSize,
		row.PredicateJSON,
		row.Version,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("upsert pattern: %w", err)
	}
	return nil
}

// LoadPatterns returns every stored definition plus the set version, which
// is the highest version among the rows. Snapshots built from one load stay
// internally consistent even if the table changes afterwards.
func (s *Store) LoadPatterns(ctx context.Context) ([]PatternRow, int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT pattern_id, name, confidence, sample_size, predicate_json, version, updated_at
         FROM patterns ORDER BY pattern_id`,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("load patterns: %w", err)
	}
	defer rows.Close()

	var (
		out     []PatternRow
		version int
	)
	for rows.Next() {
		var (
			row        PatternRow
			updatedRaw string
		)
		if err := rows.Scan(&row.PatternID, &row.Name, &row.Confidence, &row.SampleSize, &row.PredicateJSON, &row.Version, &updatedRaw); err != nil {
			return nil, 0, err
		}
		if t, err := parseTimeString(updatedRaw); err == nil {
			row.UpdatedAt = t
		}
		if row.Version > version {
			version = row.Version
		}
		out = append(out, row)
	}
	return out, version, rows.Err()
}

// ReplaceMatches replaces the stored pattern matches for one video with the
// results of the latest matching run.
func (s *Store) ReplaceMatches(ctx context.Context, videoID string, matches []MatchRow) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin matches tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM pattern_matches WHERE video_id = ?`, videoID); err != nil {
			return fmt.Errorf("clear matches: %w", err)
		}
		timestamp := time.Now().UTC().Format(time.RFC3339Nano)
		for _, m := range matches {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO pattern_matches (video_id, pattern_id, strength, snapshot_version, computed_at)
                 VALUES (?, ?, ?, ?, ?)`,
				videoID,
				m.PatternID,
				m.Strength,
				m.SnapshotVersion,
				timestamp,
			); err != nil {
				return fmt.Errorf("insert match: %w", err)
			}
		}
		return tx.Commit()
	})
}

// MatchesForVideo returns stored matches ordered by descending strength.
func (s *Store) MatchesForVideo(ctx context.Context, videoID string) ([]MatchRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT video_id, pattern_id, strength, snapshot_version, computed_at
         FROM pattern_matches WHERE video_id = ? ORDER BY strength DESC, pattern_id`,
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("matches for video: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func collectMatches(rows *sql.Rows) ([]MatchRow, error) {
	var out []MatchRow
	for rows.Next() {
		var (
			m           MatchRow
			computedRaw string
		)
		if err := rows.Scan(&m.VideoID, &m.PatternID, &m.Strength, &m.SnapshotVersion, &computedRaw); err != nil {
			return nil, err
		}
		if t, err := parseTimeString(computedRaw); err == nil {
			m.ComputedAt = t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
