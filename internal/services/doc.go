// Package services defines shared utilities consumed by the pipeline stages
// and the batch orchestrator.
//
// Key responsibilities:
//   - Context helpers that stamp video IDs, stage names, and batch run
//     identifiers for logging.
//   - Error marker sentinels plus the Wrap helper that translate failures
//     into consistent analysis statuses and recorded error kinds.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
