// Package ingest loads analysis bundles from disk. A bundle is one JSON file
// per video holding the word-level transcript and references to sampled frame
// images; ingest turns bundles into batch inputs with lazily decoded frames.
package ingest
