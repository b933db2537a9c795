// Package words turns a transcript with per-word timestamps into the ordered
// word-event timeline: speech function, emphasis, sentiment, and a derived
// rolling pacing series. Damaged timestamps are repaired by interpolation up
// to a configurable fraction; beyond that the transcript is rejected.
package words
