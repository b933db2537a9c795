// Package logging builds the slog loggers used across reelscore and defines
// the shared attribute vocabulary (component, event_type, error_hint,
// video_id) so console and JSON output stay consistent between the CLI and
// the batch orchestrator.
package logging
