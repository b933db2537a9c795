// Package visioncache persists vision-model observations keyed by frame
// content hash, so re-analysis of an unchanged video never repeats a model
// call. The cache is a single JSON file written atomically.
package visioncache
