// Package store persists videos, scores, metrics snapshots, and pattern
// definitions in SQLite.
//
// Videos move through a pending, extracting, aligning, scoring lifecycle and
// land in completed, failed, or review. Pre-publish scores are upserted
// because they are deterministic; observed metrics and post-publish scores
// are append-only so checkback history survives. Writes retry briefly on
// SQLITE_BUSY since the CLI and a batch run may share the database.
package store
