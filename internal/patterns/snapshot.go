package patterns

import (
	"fmt"
	"sort"

	"reelscore/internal/services"
)

// Snapshot is a versioned, immutable set of usable patterns. Matching runs
// against a snapshot, never against live definitions, so results for one
// batch stay internally consistent even while the pattern set is refreshed.
type Snapshot struct {
	version  int
	patterns []Definition
}

// Gate controls which definitions are considered trustworthy enough to
// match against.
type Gate struct {
	MinConfidence float64
	MinSamples    int
}

func (g Gate) orDefault() Gate {
	if g.MinConfidence <= 0 {
		g.MinConfidence = 0.6
	}
	if g.MinSamples <= 0 {
		g.MinSamples = 5
	}
	return g
}

func (g Gate) admits(d Definition) bool {
	return d.Confidence >= g.MinConfidence && d.SampleSize >= g.MinSamples
}

// NewSnapshot filters defs down to the usable set. Definitions below the
// gate are dropped silently; definitions with broken predicates are dropped
// and reported so the caller can log them without aborting the run.
func NewSnapshot(version int, defs []Definition, gate Gate) (*Snapshot, []error) {
	gate = gate.orDefault()
	var (
		usable  []Definition
		skipped []error
	)
	for _, d := range defs {
		if len(d.Conditions) == 0 {
			skipped = append(skipped, services.Wrap(services.ErrPatternPredicate, services.StagePatterns, "snapshot", fmt.Sprintf("pattern %s has no conditions", d.ID), nil))
			continue
		}
		bad := false
		for _, c := range d.Conditions {
			if err := c.validate(); err != nil {
				skipped = append(skipped, services.Wrap(services.ErrPatternPredicate, services.StagePatterns, "snapshot", fmt.Sprintf("pattern %s", d.ID), err))
				bad = true
				break
			}
		}
		if bad || !gate.admits(d) {
			continue
		}
		usable = append(usable, d)
	}
	return &Snapshot{version: version, patterns: usable}, skipped
}

// Version identifies the pattern set this snapshot was built from.
func (s *Snapshot) Version() int { return s.version }

// Len returns the number of usable patterns.
func (s *Snapshot) Len() int { return len(s.patterns) }

// Match is one pattern the video satisfied. Strength folds the pattern's
// confidence together with how centrally the video's features sit inside
// the predicate's ranges, so an edge-of-range match on a shaky pattern
// ranks below a dead-center match on a proven one.
type Match struct {
	PatternID string
	Name      string
	Strength  float64
}

// Match evaluates every usable pattern against the vector. A pattern
// matches only when all of its conditions hold. Results are ordered by
// descending strength, ties broken by pattern ID for stable output.
func (s *Snapshot) Match(v FeatureVector) []Match {
	var matches []Match
	for _, d := range s.patterns {
		total := 0.0
		ok := true
		for _, c := range d.Conditions {
			depth, hit := c.evaluate(v)
			if !hit {
				ok = false
				break
			}
			total += depth
		}
		if !ok {
			continue
		}
		mean := total / float64(len(d.Conditions))
		matches = append(matches, Match{
			PatternID: d.ID,
			Name:      d.Name,
			Strength:  d.Confidence * mean,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Strength != matches[j].Strength {
			return matches[i].Strength > matches[j].Strength
		}
		return matches[i].PatternID < matches[j].PatternID
	})
	return matches
}
