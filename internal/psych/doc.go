// Package psych derives the FATE (focus, authority, tribe, emotion) profile
// and hook strength for a video from its segments, word events, and frame
// events. Scoring is pure and reproducible: identical inputs always produce
// identical scores.
package psych
