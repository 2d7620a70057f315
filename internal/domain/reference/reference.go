// Package reference holds the age/gender baseline means and the population
// standard deviations that raw measurements are normalized against.
package reference

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/okian/fitscore/internal/domain/types"
)

// Baseline is the mean per metric for one (grade, gender) group.
type Baseline struct {
	Grade  types.Grade  `json:"grade"`
	Gender types.Gender `json:"gender"`
	Mean   types.Values `json:"mean"`
}

type key struct {
	grade  types.Grade
	gender types.Gender
}

// Table is an immutable baseline lookup. A single stddev applies per metric
// regardless of grade or gender.
type Table struct {
	means  map[key]types.Values
	stddev [types.NumMetrics]float64
}

// Baseline returns the means for (grade, gender).
func (t *Table) Baseline(grade types.Grade, gender types.Gender) (Baseline, error) {
	mean, ok := t.means[key{grade, gender}]
	if !ok {
		return Baseline{}, fmt.Errorf("%w: grade=%s gender=%s", ErrMissingReference, grade, gender)
	}
	return Baseline{Grade: grade, Gender: gender, Mean: mean}, nil
}

// StdDev returns the population standard deviation for m.
func (t *Table) StdDev(m types.Metric) float64 {
	if !m.Valid() {
		return 0
	}
	return t.stddev[m]
}

// Len returns the number of (grade, gender) groups in the table.
func (t *Table) Len() int { return len(t.means) }

// file is the on-disk YAML shape:
//
//	stddev: {grip: 3.5, ...}
//	baselines:
//	  "4": {male: {grip: 17.5, ...}, female: {...}}
type file struct {
	StdDev    map[string]float64                       `yaml:"stddev"`
	Baselines map[string]map[string]map[string]float64 `yaml:"baselines"`
}

// Load parses a YAML reference table. Every metric needs a positive stddev;
// baselines may be partial.
func Load(r io.Reader) (*Table, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	t := &Table{means: make(map[key]types.Values)}
	for name, sd := range f.StdDev {
		m, err := types.ParseMetric(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
		}
		t.stddev[m] = sd
	}
	for _, m := range types.Metrics {
		if t.stddev[m] <= 0 {
			return nil, fmt.Errorf("%w: stddev for %s must be positive", ErrInvalidTable, m)
		}
	}
	for g, byGender := range f.Baselines {
		grade, err := types.ParseGrade(g)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
		}
		for s, means := range byGender {
			gender, err := types.ParseGender(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
			}
			var vs types.Values
			for name, v := range means {
				m, err := types.ParseMetric(name)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
				}
				vs.Set(m, v)
			}
			t.means[key{grade, gender}] = vs
		}
	}
	return t, nil
}
