// Package scoring turns canonical measurements into T-score deviations and
// 1-10 ability scores against a reference baseline.
package scoring

import (
	"context"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/reference"
	"github.com/okian/fitscore/internal/domain/types"
)

// Scale constants.
const (
	// MidScore is assigned to metrics that could not be scored.
	MidScore = 5
	MinScore = 1
	MaxScore = 10

	deviationCenter = 50.0
	deviationStep   = 10.0
)

// Lower bounds of each score bucket, highest first. A deviation below the
// last bound scores MinScore.
var scoreBounds = [...]struct {
	min   float64
	score int
}{
	{70, 10},
	{65, 9},
	{60, 8},
	{55, 7},
	{50, 6},
	{45, 5},
	{40, 4},
	{35, 3},
	{30, 2},
}

// Deviation computes 50 + 10*(value-mean)/stdDev, negating the numerator
// when reversed. The result is rounded to 1 decimal. A non-positive stdDev
// yields the center value.
func Deviation(value, mean, stdDev float64, reversed bool) float64 {
	if stdDev <= 0 {
		return deviationCenter
	}
	diff := value - mean
	if reversed {
		diff = -diff
	}
	return numeric.Round(deviationCenter+deviationStep*diff/stdDev, 1)
}

// ScaleToTen buckets a deviation into a 1-10 score.
func ScaleToTen(deviation float64) int {
	for _, b := range scoreBounds {
		if deviation >= b.min {
			return b.score
		}
	}
	return MinScore
}

// DeviationThreshold returns the lowest deviation that earns score, the
// inverse of ScaleToTen. Scores at or below MinScore have no threshold and
// return 0.
func DeviationThreshold(score int) float64 {
	for _, b := range scoreBounds {
		if b.score == score {
			return b.min
		}
	}
	return 0
}

// RawForDeviation inverts Deviation for a metric: the raw value that would
// produce the given deviation.
func RawForDeviation(m types.Metric, deviation, mean, stdDev float64) float64 {
	delta := (deviation - deviationCenter) / deviationStep * stdDev
	if !m.HigherIsBetter() {
		return mean - delta
	}
	return mean + delta
}

// Result contains the scores for one measurement. Scores always holds all
// seven metrics; Deviations only those that were actually scored.
type Result struct {
	Baseline   reference.Baseline `json:"baseline"`
	Scores     types.Scores       `json:"scores"`
	Deviations types.Values       `json:"deviations"`
}

// Scored reports whether m was scored from a measured value.
func (r Result) Scored(m types.Metric) bool { return r.Deviations.Has(m) }

// Scorer computes ability scores for a measurement.
type Scorer interface {
	Score(ctx context.Context, m model.Measurement) (Result, error)
}

// Option applies a configuration option to the ReferenceScorer.
type Option func(*ReferenceScorer)

// WithTable sets the reference table used for baselines.
func WithTable(t *reference.Table) Option {
	return func(s *ReferenceScorer) {
		if t != nil {
			s.table = t
		}
	}
}

// ReferenceScorer implements Scorer against a reference.Table. It holds no
// mutable state and is safe for concurrent use.
type ReferenceScorer struct {
	table *reference.Table
}

// NewReferenceScorer creates a scorer using the built-in table unless
// overridden.
func NewReferenceScorer(opts ...Option) *ReferenceScorer {
	s := &ReferenceScorer{table: reference.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the reference table in use.
func (s *ReferenceScorer) Table() *reference.Table { return s.table }

// Score scores every metric of m. It fails with reference.ErrMissingReference
// when no baseline exists for the subject's grade and gender.
func (s *ReferenceScorer) Score(_ context.Context, m model.Measurement) (Result, error) {
	return Score(s.table, m)
}

// Score is the pure scoring function behind ReferenceScorer.
func Score(table *reference.Table, m model.Measurement) (Result, error) {
	baseline, err := table.Baseline(m.Grade, m.Gender)
	if err != nil {
		return Result{}, err
	}
	res := Result{Baseline: baseline}
	for _, k := range types.Metrics {
		res.Scores[k] = MidScore
		value, ok := m.Values.Get(k)
		if !ok {
			continue
		}
		mean, ok := baseline.Mean.Get(k)
		sd := table.StdDev(k)
		if !ok || sd <= 0 {
			continue
		}
		dev := Deviation(value, mean, sd, !k.HigherIsBetter())
		res.Deviations.Set(k, dev)
		res.Scores[k] = ScaleToTen(dev)
	}
	return res, nil
}
