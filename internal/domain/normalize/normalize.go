// Package normalize converts equipment-dependent raw inputs into canonical
// measurements before scoring.
package normalize

import (
	"math"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/types"
)

// Sprint distances in metres.
const (
	CanonicalDashDistance = 15
	LongDashDistance      = 50
)

// sprintRatio scales a 50m time down to the distance share of 15m.
const sprintRatio = 0.3

// accelerationPenalty is the extra time the first 15m costs over the 50m
// average pace, per grade. Younger children spend longer accelerating.
var accelerationPenalty = map[types.Grade]float64{
	types.GradeK5: 0.55,
	types.Grade1:  0.52,
	types.Grade2:  0.50,
	types.Grade3:  0.48,
	types.Grade4:  0.46,
	types.Grade5:  0.44,
	types.Grade6:  0.42,
}

// SprintFrom50m estimates a 15m sprint time from a 50m time.
func SprintFrom50m(grade types.Grade, t50 float64) float64 {
	penalty, ok := accelerationPenalty[grade]
	if !ok {
		penalty = accelerationPenalty[types.Grade6]
	}
	return numeric.Round(t50*sprintRatio+penalty, 2)
}

// SprintTo50m is the inverse of SprintFrom50m, unrounded.
func SprintTo50m(grade types.Grade, t15 float64) float64 {
	penalty, ok := accelerationPenalty[grade]
	if !ok {
		penalty = accelerationPenalty[types.Grade6]
	}
	return (t15 - penalty) / sprintRatio
}

// Factor maps a discrete ball property to a distance multiplier.
type Factor struct {
	Value  float64 `json:"value"`
	Factor float64 `json:"factor"`
}

// DiameterFactors maps ball diameter (cm) to a multiplier. Bigger balls are
// harder to grip and travel less far, so they get a larger correction.
var DiameterFactors = []Factor{
	{Value: 8, Factor: 1.00},
	{Value: 10, Factor: 1.06},
	{Value: 12, Factor: 1.12},
	{Value: 14, Factor: 1.19},
	{Value: 16, Factor: 1.26},
}

// WeightFactors maps ball weight (g) to a multiplier.
var WeightFactors = []Factor{
	{Value: 100, Factor: 1.00},
	{Value: 150, Factor: 1.04},
	{Value: 200, Factor: 1.08},
	{Value: 300, Factor: 1.15},
}

func lookup(table []Factor, v float64) float64 {
	for _, f := range table {
		if math.Abs(f.Value-v) < 1e-9 {
			return f.Factor
		}
	}
	return 1
}

// DiameterFactor returns the multiplier for a ball diameter; unknown sizes
// are not corrected.
func DiameterFactor(cm float64) float64 { return lookup(DiameterFactors, cm) }

// WeightFactor returns the multiplier for a ball weight; unknown weights are
// not corrected.
func WeightFactor(g float64) float64 { return lookup(WeightFactors, g) }

// CorrectThrow applies both ball corrections and rounds to 1 decimal.
func CorrectThrow(distance, diameter, weight float64) float64 {
	return numeric.Round(distance*DiameterFactor(diameter)*WeightFactor(weight), 1)
}

// Grip averages whichever hands were measured.
func Grip(right, left *float64) (float64, bool) {
	switch {
	case right != nil && left != nil:
		return (*right + *left) / 2, true
	case right != nil:
		return *right, true
	case left != nil:
		return *left, true
	}
	return 0, false
}

// Canonicalize converts a raw record into a canonical measurement.
func Canonicalize(r model.Record) model.Measurement {
	m := model.Measurement{
		RecordID:   r.ID,
		SubjectID:  r.SubjectID,
		StoreID:    r.StoreID,
		Grade:      r.Grade,
		Gender:     r.Gender,
		Height:     r.Height,
		Weight:     r.Weight,
		MeasuredAt: r.MeasuredAt,
	}
	if g, ok := Grip(r.GripRight, r.GripLeft); ok {
		m.Values.Set(types.Grip, g)
	}
	m.Values.SetPtr(types.Jump, r.Jump)
	if r.Dash != nil {
		dash := *r.Dash
		if r.DashDist == LongDashDistance {
			dash = SprintFrom50m(r.Grade, dash)
		}
		m.Values.Set(types.Dash, dash)
	}
	m.Values.SetPtr(types.DoubleJump, r.DoubleJump)
	m.Values.SetPtr(types.Squat, r.Squat)
	m.Values.SetPtr(types.Sidestep, r.Sidestep)
	if r.Throw != nil {
		m.Values.Set(types.Throw, CorrectThrow(*r.Throw, r.BallDiameter, r.BallWeight))
	}
	return m
}

// CanonicalizeAll converts every record.
func CanonicalizeAll(records []model.Record) []model.Measurement {
	out := make([]model.Measurement, len(records))
	for i, r := range records {
		out[i] = Canonicalize(r)
	}
	return out
}
