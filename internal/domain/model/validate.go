package model

import (
	"fmt"
	"math"
)

// Validate checks the categorical fields and that every measured value is a
// finite, non-negative number. An unknown grade or gender is rejected here
// instead of surfacing later as a missing baseline.
func (r Record) Validate() error {
	if !r.Grade.Valid() {
		return fmt.Errorf("%w: unknown grade %q", ErrInvalidRecord, r.Grade)
	}
	if !r.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidRecord, r.Gender)
	}
	switch r.DashDist {
	case 0, 15, 50:
	default:
		return fmt.Errorf("%w: unsupported dash distance %d", ErrInvalidRecord, r.DashDist)
	}
	fields := []struct {
		name string
		v    *float64
	}{
		{"height", r.Height}, {"weight", r.Weight},
		{"grip_right", r.GripRight}, {"grip_left", r.GripLeft},
		{"jump", r.Jump}, {"dash", r.Dash}, {"doublejump", r.DoubleJump},
		{"squat", r.Squat}, {"sidestep", r.Sidestep}, {"throw", r.Throw},
	}
	for _, f := range fields {
		if f.v == nil {
			continue
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidRecord, f.name)
		}
	}
	if r.BallDiameter < 0 || r.BallWeight < 0 {
		return fmt.Errorf("%w: ball size must be non-negative", ErrInvalidRecord)
	}
	return nil
}
