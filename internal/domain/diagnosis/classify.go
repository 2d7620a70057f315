package diagnosis

import (
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/types"
)

// Skill classes.
const (
	ClassBeginner = "beginner"
	ClassStandard = "standard"
	ClassExpert   = "expert"
)

const (
	motorAgePerScore = 0.8
	midScore         = 5.0

	eliteAvg      = 8.0
	specialistGap = 3
	balancedAvg   = 6.0
	growingAvg    = 4.0

	expertAvg   = 7.0
	expertMin   = 5
	standardAvg = 5.0
)

// ActualAge maps a grade to its nominal age in years. Unknown grades map to 0.
func ActualAge(g types.Grade) float64 {
	idx := g.Index()
	if idx < 0 {
		return 0
	}
	return float64(6 + idx)
}

// MotorAge estimates a developmental age from the mean score, 1 decimal.
func MotorAge(g types.Grade, s types.Scores) float64 {
	return numeric.Round(ActualAge(g)+(s.Mean()-midScore)*motorAgePerScore, 1)
}

// ClassifyArchetype derives the profile archetype from a score vector.
func ClassifyArchetype(s types.Scores) Archetype {
	avg := s.Mean()
	switch {
	case avg >= eliteAvg:
		return Elite
	case s.Max()-s.Min() >= specialistGap:
		if a, ok := Specialists[s.Top()]; ok {
			return a
		}
		return Balanced
	case avg >= balancedAvg:
		return Balanced
	case avg >= growingAvg:
		return Growing
	default:
		return Potential
	}
}

// DetermineClass buckets a score vector into a skill class.
func DetermineClass(s types.Scores) string {
	avg := s.Mean()
	switch {
	case avg >= expertAvg && s.Min() >= expertMin:
		return ClassExpert
	case avg >= standardAvg:
		return ClassStandard
	default:
		return ClassBeginner
	}
}

// Weakest returns the lowest-scoring metric; ties resolve in canonical order.
func Weakest(s types.Scores) types.Metric {
	return s.Ascending()[0]
}

// WeakestClass maps the weakest metric to its remedial class.
func WeakestClass(s types.Scores) WeakClass {
	return WeakClasses[Weakest(s)]
}
