// Package main hosts the reelscore CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into batch analysis
// runs, score lookups, metric checkbacks, pattern maintenance, and store
// inspection. It centralizes configuration resolution, store access, and
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
