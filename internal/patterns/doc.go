// Package patterns matches analyzed videos against a library of recognized
// viral patterns.
//
// Pattern definitions carry a confidence and a sample size from whatever
// mined them; only definitions above the configured gate participate in
// matching. Matching always runs against an immutable versioned Snapshot so
// every video in a batch is judged by the same pattern set. A definition
// with a structurally broken predicate is skipped and reported, never fatal.
package patterns
