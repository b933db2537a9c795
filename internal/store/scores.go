package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SavePreScore records the pre-publish score for a video. Recomputation of
// the same video overwrites the previous value; the score is deterministic
// so nothing of interest is lost.
func (s *Store) SavePreScore(ctx context.Context, videoID string, score int, confidence float64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO pre_scores (video_id, score, confidence, computed_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(video_id) DO UPDATE SET
             score = excluded.score,
             confidence = excluded.confidence,
             computed_at = excluded.computed_at`,
		videoID,
		score,
		confidence,
		timestamp,
	); err != nil {
		return fmt.Errorf("save pre score: %w", err)
	}
	return nil
}

// GetPreScore returns the stored pre-publish score for a video, reporting
// absence via ok rather than an error.
func (s *Store) GetPreScore(ctx context.Context, videoID string) (score int, confidence float64, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT score, confidence FROM pre_scores WHERE video_id = ?`, videoID)
	if err := row.Scan(&score, &confidence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, false, nil
		}
		return 0, 0, false, fmt.Errorf("get pre score: %w", err)
	}
	return score, confidence, true, nil
}

// AppendMetrics records one checkback snapshot. Snapshots are never updated
// in place; each observation is a new row.
func (s *Store) AppendMetrics(ctx context.Context, m Metrics) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO observed_metrics (
            post_id, video_id, platform, content_type, followers, views,
            likes, comments, shares, saves, posted_at, observed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.PostID,
		nullableString(m.VideoID),
		m.Platform,
		m.ContentType,
		m.Followers,
		m.Views,
		m.Likes,
		m.Comments,
		m.Shares,
		m.Saves,
		m.PostedAt.UTC().Format(time.RFC3339Nano),
		m.ObservedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("append metrics: %w", err)
	}
	return res.LastInsertId()
}

// MetricsForPost returns all snapshots for a post in observation order.
func (s *Store) MetricsForPost(ctx context.Context, postID string) ([]Metrics, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, post_id, video_id, platform, content_type, followers, views, likes, comments, shares, saves, posted_at, observed_at
         FROM observed_metrics WHERE post_id = ? ORDER BY observed_at`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("metrics for post: %w", err)
	}
	defer rows.Close()

	var out []Metrics
	for rows.Next() {
		var (
			m           Metrics
			videoID     sql.NullString
			postedRaw   string
			observedRaw string
		)
		if err := rows.Scan(&m.ID, &m.PostID, &videoID, &m.Platform, &m.ContentType, &m.Followers, &m.Views, &m.Likes, &m.Comments, &m.Shares, &m.Saves, &postedRaw, &observedRaw); err != nil {
			return nil, err
		}
		m.VideoID = videoID.String
		if t, err := parseTimeString(postedRaw); err == nil {
			m.PostedAt = t
		}
		if t, err := parseTimeString(observedRaw); err == nil {
			m.ObservedAt = t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AppendPostScore records one computed post-publish score. History is
// append-only so earlier checkbacks stay visible.
func (s *Store) AppendPostScore(ctx context.Context, row PostScoreRow) (int64, error) {
	if row.ComputedAt.IsZero() {
		row.ComputedAt = time.Now().UTC()
	}
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO post_scores (
            post_id, platform, content_type, score, size_ratio,
            engagement_rate, decay_weight, percentile, peer_set_size,
            observed_at, computed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.PostID,
		row.Platform,
		row.ContentType,
		row.Score,
		row.SizeRatio,
		row.EngagementRate,
		row.DecayWeight,
		nullableFloat(row.Percentile),
		row.PeerSetSize,
		row.ObservedAt.UTC().Format(time.RFC3339Nano),
		row.ComputedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("append post score: %w", err)
	}
	return res.LastInsertId()
}

// PostScores returns the score history for one post in computation order.
func (s *Store) PostScores(ctx context.Context, postID string) ([]PostScoreRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, post_id, platform, content_type, score, size_ratio, engagement_rate, decay_weight, percentile, peer_set_size, observed_at, computed_at
         FROM post_scores WHERE post_id = ? ORDER BY computed_at`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("post scores: %w", err)
	}
	defer rows.Close()
	return collectPostScores(rows)
}

// PeerScores returns the latest score of every other post with the same
// platform and content type, the peer set a new post's percentile is ranked
// against. An empty content type forms its own peer group.
func (s *Store) PeerScores(ctx context.Context, platform, contentType, excludePostID string) ([]float64, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT ps.score
         FROM post_scores ps
         JOIN (
             SELECT post_id, MAX(computed_at) AS latest
             FROM post_scores
             WHERE platform = ? AND content_type = ? AND post_id != ?
             GROUP BY post_id
         ) latest ON ps.post_id = latest.post_id AND ps.computed_at = latest.latest`,
		platform,
		contentType,
		excludePostID,
	)
	if err != nil {
		return nil, fmt.Errorf("peer scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func collectPostScores(rows *sql.Rows) ([]PostScoreRow, error) {
	var out []PostScoreRow
	for rows.Next() {
		var (
			row         PostScoreRow
			percentile  sql.NullFloat64
			observedRaw string
			computedRaw string
		)
		if err := rows.Scan(&row.ID, &row.PostID, &row.Platform, &row.ContentType, &row.Score, &row.SizeRatio, &row.EngagementRate, &row.DecayWeight, &percentile, &row.PeerSetSize, &observedRaw, &computedRaw); err != nil {
			return nil, err
		}
		if percentile.Valid {
			v := percentile.Float64
			row.Percentile = &v
		}
		if t, err := parseTimeString(observedRaw); err == nil {
			row.ObservedAt = t
		}
		if t, err := parseTimeString(computedRaw); err == nil {
			row.ComputedAt = t
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
