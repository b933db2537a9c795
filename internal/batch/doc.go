// Package batch orchestrates analysis of many videos across a fixed worker
// pool.
//
// Each video runs the full pipeline: word and frame extraction concurrently,
// timeline alignment, segmentation, psychology scoring, pre-publish scoring,
// and pattern matching against one immutable snapshot shared by the whole
// run. Vision-model calls across all workers share a token bucket. Failures
// are isolated per video, unchanged content is skipped by content hash, and
// cancellation is cooperative between pipeline steps.
package batch
