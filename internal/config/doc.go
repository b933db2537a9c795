// Package config loads, normalizes, and validates reelscore configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and renormalizes scoring weight groups so the
// scorers can assume blends that sum to one. The Config type centralizes
// every product-tunable knob: extractor thresholds, FATE and publish blend
// weights, platform baseline tables, time-decay buckets, cue-list
// extensions, and batch worker settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, normalized weights, and clear validation errors.
package config
