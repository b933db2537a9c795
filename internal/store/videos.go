package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const videoColumns = "id, video_id, title, platform, content_type, duration_seconds, content_hash, status, error_message, error_kind, needs_review, review_reason, progress_stage, progress_percent, progress_message, analysis_json, batch_id, created_at, updated_at"

// NewVideo inserts a new video awaiting analysis.
func (s *Store) NewVideo(ctx context.Context, videoID, title, platform string) (*Video, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO videos (
            video_id, title, platform, status, created_at, updated_at,
            progress_percent
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		videoID,
		nullableString(title),
		nullableString(platform),
		StatusPending,
		timestamp,
		timestamp,
		0.0,
	)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a video by row identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// GetByVideoID fetches a video by its external identifier.
func (s *Store) GetByVideoID(ctx context.Context, videoID string) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE video_id = ?`, videoID)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video by id: %w", err)
	}
	return video, nil
}

// FindCompletedByContentHash returns a completed video with the same content
// hash, used to skip re-analysis of unchanged content.
func (s *Store) FindCompletedByContentHash(ctx context.Context, hash string) (*Video, error) {
	if hash == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+videoColumns+` FROM videos WHERE content_hash = ? AND status = ? ORDER BY id LIMIT 1`,
		hash,
		StatusCompleted,
	)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by content hash: %w", err)
	}
	return video, nil
}

// Update persists changes to an existing video row.
func (s *Store) Update(ctx context.Context, video *Video) error {
	if video == nil {
		return errors.New("video is nil")
	}
	video.UpdatedAt = time.Now().UTC()
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE videos
         SET title = ?, platform = ?, content_type = ?, duration_seconds = ?,
             content_hash = ?, status = ?, error_message = ?, error_kind = ?,
             needs_review = ?, review_reason = ?, progress_stage = ?,
             progress_percent = ?, progress_message = ?, analysis_json = ?,
             batch_id = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(video.Title),
		nullableString(video.Platform),
		nullableString(video.ContentType),
		video.DurationSeconds,
		nullableString(video.ContentHash),
		video.Status,
		nullableString(video.ErrorMessage),
		nullableString(video.ErrorKind),
		boolToInt(video.NeedsReview),
		nullableString(video.ReviewReason),
		nullableString(video.ProgressStage),
		video.ProgressPercent,
		nullableString(video.ProgressMessage),
		nullableString(video.AnalysisJSON),
		nullableString(video.BatchID),
		video.UpdatedAt.Format(time.RFC3339Nano),
		video.ID,
	); err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return nil
}

// NextPending returns the oldest video still waiting for analysis.
func (s *Store) NextPending(ctx context.Context) (*Video, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+videoColumns+` FROM videos WHERE status = ? ORDER BY created_at LIMIT 1`,
		StatusPending,
	)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

// List returns videos filtered by status set, or all videos when no status
// is provided, ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Video, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + videoColumns + ` FROM videos`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// ResetProcessing rolls any mid-analysis videos back to pending. Run at
// startup so work interrupted by a crash is picked up again.
func (s *Store) ResetProcessing(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET status = ?, progress_stage = NULL, progress_percent = 0, progress_message = NULL, updated_at = ?
         WHERE status IN (?, ?, ?)`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusExtracting,
		StatusAligning,
		StatusScoring,
	)
	if err != nil {
		return 0, fmt.Errorf("reset processing: %w", err)
	}
	return res.RowsAffected()
}

// Remove deletes a video row by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		id              int64
		videoID         string
		title           sql.NullString
		platform        sql.NullString
		contentType     sql.NullString
		duration        sql.NullFloat64
		contentHash     sql.NullString
		statusStr       string
		errorMessage    sql.NullString
		errorKind       sql.NullString
		needsReview     sql.NullInt64
		reviewReason    sql.NullString
		progressStage   sql.NullString
		progressPercent sql.NullFloat64
		progressMessage sql.NullString
		analysisJSON    sql.NullString
		batchID         sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&videoID,
		&title,
		&platform,
		&contentType,
		&duration,
		&contentHash,
		&statusStr,
		&errorMessage,
		&errorKind,
		&needsReview,
		&reviewReason,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&analysisJSON,
		&batchID,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	video := &Video{
		ID:              id,
		VideoID:         videoID,
		Title:           title.String,
		Platform:        platform.String,
		ContentType:     contentType.String,
		DurationSeconds: duration.Float64,
		ContentHash:     contentHash.String,
		Status:          Status(statusStr),
		ErrorMessage:    errorMessage.String,
		ErrorKind:       errorKind.String,
		ReviewReason:    reviewReason.String,
		ProgressStage:   progressStage.String,
		ProgressPercent: progressPercent.Float64,
		ProgressMessage: progressMessage.String,
		AnalysisJSON:    analysisJSON.String,
		BatchID:         batchID.String,
	}
	if needsReview.Valid {
		video.NeedsReview = needsReview.Int64 != 0
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		video.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		video.UpdatedAt = updated
	}
	return video, nil
}
