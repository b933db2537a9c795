package patterns_test

import (
	"errors"
	"math"
	"testing"

	"reelscore/internal/patterns"
	"reelscore/internal/services"
)

func f(v float64) *float64 { return &v }

func vector() patterns.FeatureVector {
	return patterns.FeatureVector{
		Numeric: map[string]float64{
			"hook_strength": 0.8,
			"fate_combined": 0.7,
			"hook_pacing":   0.6,
		},
		Labels: map[string]string{"hook_type": "pain"},
	}
}

func TestParsePredicate(t *testing.T) {
	conditions, err := patterns.ParsePredicate([]byte(`[
		{"feature": "hook_strength", "min": 0.7},
		{"feature": "hook_type", "equals": "pain"}
	]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(conditions) != 2 {
		t.Fatalf("got %d conditions, want 2", len(conditions))
	}

	malformed := []string{
		`not json`,
		`[]`,
		`[{"min": 0.5}]`,
		`[{"feature": "hook_strength"}]`,
		`[{"feature": "hook_strength", "min": 0.9, "max": 0.1}]`,
		`[{"feature": "hook_type", "equals": "pain", "min": 0.5}]`,
	}
	for _, raw := range malformed {
		if _, err := patterns.ParsePredicate([]byte(raw)); err == nil {
			t.Errorf("predicate %s parsed without error", raw)
		}
	}
}

func TestSnapshotGatesUnusablePatterns(t *testing.T) {
	defs := []patterns.Definition{
		{
			ID: "p-usable", Confidence: 0.8, SampleSize: 12,
			Conditions: []patterns.Condition{{Feature: "hook_strength", Min: f(0.5)}},
		},
		{
			ID: "p-low-confidence", Confidence: 0.4, SampleSize: 30,
			Conditions: []patterns.Condition{{Feature: "hook_strength", Min: f(0.1)}},
		},
		{
			ID: "p-thin-sample", Confidence: 0.9, SampleSize: 2,
			Conditions: []patterns.Condition{{Feature: "hook_strength", Min: f(0.1)}},
		},
	}
	snap, skipped := patterns.NewSnapshot(3, defs, patterns.Gate{})
	if len(skipped) != 0 {
		t.Fatalf("gated patterns should be dropped silently, got %v", skipped)
	}
	if snap.Version() != 3 {
		t.Fatalf("version = %d, want 3", snap.Version())
	}
	if snap.Len() != 1 {
		t.Fatalf("usable patterns = %d, want 1", snap.Len())
	}
	matches := snap.Match(vector())
	if len(matches) != 1 || matches[0].PatternID != "p-usable" {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestSnapshotSkipsBrokenPredicate(t *testing.T) {
	defs := []patterns.Definition{
		{
			ID: "p-broken", Confidence: 0.9, SampleSize: 20,
			Conditions: []patterns.Condition{{Feature: "hook_strength", Min: f(0.9), Max: f(0.1)}},
		},
		{
			ID: "p-fine", Confidence: 0.9, SampleSize: 20,
			Conditions: []patterns.Condition{{Feature: "hook_strength", Min: f(0.5)}},
		},
	}
	snap, skipped := patterns.NewSnapshot(1, defs, patterns.Gate{})
	if len(skipped) != 1 {
		t.Fatalf("skipped = %v, want one entry", skipped)
	}
	if !errors.Is(skipped[0], services.ErrPatternPredicate) {
		t.Fatalf("skip error not tagged: %v", skipped[0])
	}
	if snap.Len() != 1 {
		t.Fatalf("broken pattern leaked into snapshot, len = %d", snap.Len())
	}
	if got := snap.Match(vector()); len(got) != 1 || got[0].PatternID != "p-fine" {
		t.Fatalf("matches = %+v", got)
	}
}

func TestMatchIsConjunctive(t *testing.T) {
	defs := []patterns.Definition{
		{
			ID: "p-all", Confidence: 0.8, SampleSize: 10,
			Conditions: []patterns.Condition{
				{Feature: "hook_strength", Min: f(0.7)},
				{Feature: "hook_type", Equals: "pain"},
			},
		},
		{
			ID: "p-partial", Confidence: 0.8, SampleSize: 10,
			Conditions: []patterns.Condition{
				{Feature: "hook_strength", Min: f(0.7)},
				{Feature: "hook_type", Equals: "question"},
			},
		},
		{
			ID: "p-missing-feature", Confidence: 0.8, SampleSize: 10,
			Conditions: []patterns.Condition{
				{Feature: "payload_clarity", Min: f(0.0)},
			},
		},
	}
	snap, _ := patterns.NewSnapshot(1, defs, patterns.Gate{})
	matches := snap.Match(vector())
	if len(matches) != 1 || matches[0].PatternID != "p-all" {
		t.Fatalf("matches = %+v, want only p-all", matches)
	}
}

func TestMatchStrengthRewardsCenteredValues(t *testing.T) {
	defs := []patterns.Definition{
		{
			ID: "p-range", Confidence: 1.0, SampleSize: 10,
			Conditions: []patterns.Condition{{Feature: "hook_strength", Min: f(0.0), Max: f(1.0)}},
		},
	}
	snap, _ := patterns.NewSnapshot(1, defs, patterns.Gate{})

	centered := snap.Match(patterns.FeatureVector{Numeric: map[string]float64{"hook_strength": 0.5}})
	edge := snap.Match(patterns.FeatureVector{Numeric: map[string]float64{"hook_strength": 0.98}})
	if len(centered) != 1 || len(edge) != 1 {
		t.Fatalf("both vectors should match: %d, %d", len(centered), len(edge))
	}
	if math.Abs(centered[0].Strength-1.0) > 1e-9 {
		t.Fatalf("dead-center strength = %v, want 1.0", centered[0].Strength)
	}
	if edge[0].Strength >= centered[0].Strength {
		t.Fatalf("edge match %v should rank below centered %v", edge[0].Strength, centered[0].Strength)
	}
}

func TestMatchOrderingIsStable(t *testing.T) {
	defs := []patterns.Definition{
		{ID: "b", Confidence: 0.7, SampleSize: 10, Conditions: []patterns.Condition{{Feature: "hook_type", Equals: "pain"}}},
		{ID: "a", Confidence: 0.7, SampleSize: 10, Conditions: []patterns.Condition{{Feature: "hook_type", Equals: "pain"}}},
		{ID: "c", Confidence: 0.9, SampleSize: 10, Conditions: []patterns.Condition{{Feature: "hook_type", Equals: "pain"}}},
	}
	snap, _ := patterns.NewSnapshot(1, defs, patterns.Gate{})
	matches := snap.Match(vector())
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	if matches[0].PatternID != "c" || matches[1].PatternID != "a" || matches[2].PatternID != "b" {
		t.Fatalf("order = %s, %s, %s", matches[0].PatternID, matches[1].PatternID, matches[2].PatternID)
	}
}
