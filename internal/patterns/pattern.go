package patterns

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Definition is one recognized viral pattern. Confidence and SampleSize come
// from whatever mined the pattern; the matcher only gates on them.
type Definition struct {
	ID         string
	Name       string
	Confidence float64
	SampleSize int
	Conditions []Condition
}

// Condition is one conjunct of a pattern predicate. Exactly one form is
// valid: a numeric range over a feature, or an equality test on a label.
type Condition struct {
	Feature string   `json:"feature"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Equals  string   `json:"equals,omitempty"`
}

func (c Condition) isRange() bool { return c.Min != nil || c.Max != nil }

func (c Condition) validate() error {
	if strings.TrimSpace(c.Feature) == "" {
		return fmt.Errorf("condition missing feature name")
	}
	if c.isRange() && c.Equals != "" {
		return fmt.Errorf("condition on %q mixes range and equality", c.Feature)
	}
	if !c.isRange() && c.Equals == "" {
		return fmt.Errorf("condition on %q has neither range nor equality", c.Feature)
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return fmt.Errorf("condition on %q has min %v above max %v", c.Feature, *c.Min, *c.Max)
	}
	return nil
}

// ParsePredicate decodes a stored predicate, a JSON array of conditions, and
// rejects structurally broken ones so a single bad row cannot poison a
// matching run.
func ParsePredicate(raw []byte) ([]Condition, error) {
	var conditions []Condition
	if err := json.Unmarshal(raw, &conditions); err != nil {
		return nil, fmt.Errorf("decode predicate: %w", err)
	}
	if len(conditions) == 0 {
		return nil, fmt.Errorf("predicate has no conditions")
	}
	for _, c := range conditions {
		if err := c.validate(); err != nil {
			return nil, err
		}
	}
	return conditions, nil
}

// FeatureVector is the flattened view of one analyzed video that predicates
// test against. Numeric features and label features live in separate maps so
// a predicate cannot accidentally compare across kinds.
type FeatureVector struct {
	Numeric map[string]float64
	Labels  map[string]string
}

// evaluate reports whether the condition holds and, when it does, how
// centrally the value sits inside the condition's range. Equality matches
// and one-sided ranges count as full depth. A feature absent from the
// vector never matches.
func (c Condition) evaluate(v FeatureVector) (depth float64, ok bool) {
	if c.Equals != "" {
		label, present := v.Labels[c.Feature]
		if !present || label != c.Equals {
			return 0, false
		}
		return 1, true
	}
	value, present := v.Numeric[c.Feature]
	if !present {
		return 0, false
	}
	if c.Min != nil && value < *c.Min {
		return 0, false
	}
	if c.Max != nil && value > *c.Max {
		return 0, false
	}
	if c.Min == nil || c.Max == nil || *c.Max == *c.Min {
		return 1, true
	}
	mid := (*c.Min + *c.Max) / 2
	half := (*c.Max - *c.Min) / 2
	d := 1 - abs(value-mid)/half
	if d < 0 {
		d = 0
	}
	return d, true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
