// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/fitscore/internal/domain/types"
)

// Record is one raw measurement session as persisted by the store.
// Optional values are nil when the station did not measure them.
type Record struct {
	ID        string       `json:"id"`
	SubjectID string       `json:"subject_id"`
	StoreID   string       `json:"store_id"`
	Grade     types.Grade  `json:"grade"`
	Gender    types.Gender `json:"gender"`
	Height    *float64     `json:"height,omitempty"` // cm
	Weight    *float64     `json:"weight,omitempty"` // kg

	GripRight  *float64 `json:"grip_right,omitempty"` // kg
	GripLeft   *float64 `json:"grip_left,omitempty"`  // kg
	Jump       *float64 `json:"jump,omitempty"`       // standing long jump, cm
	Dash       *float64 `json:"dash,omitempty"`       // seconds over DashDist metres
	DashDist   int      `json:"dash_distance,omitempty"`
	DoubleJump *float64 `json:"doublejump,omitempty"` // count
	Squat      *float64 `json:"squat,omitempty"`      // count
	Sidestep   *float64 `json:"sidestep,omitempty"`   // count
	Throw      *float64 `json:"throw,omitempty"`      // m, as measured

	BallDiameter float64 `json:"ball_diameter,omitempty"` // cm
	BallWeight   float64 `json:"ball_weight,omitempty"`   // g

	MeasuredAt time.Time `json:"measured_at"`
}

// Measurement is a Record after equipment normalization: one canonical value
// per metric plus the body attributes.
type Measurement struct {
	RecordID   string       `json:"record_id,omitempty"`
	SubjectID  string       `json:"subject_id,omitempty"`
	StoreID    string       `json:"store_id,omitempty"`
	Grade      types.Grade  `json:"grade"`
	Gender     types.Gender `json:"gender"`
	Height     *float64     `json:"height,omitempty"`
	Weight     *float64     `json:"weight,omitempty"`
	Values     types.Values `json:"values"`
	MeasuredAt time.Time    `json:"measured_at"`
}

// Body returns the requested body attribute. BMI is derived from height (cm)
// and weight (kg) and is absent when either is missing or height is zero.
func (m Measurement) Body(b types.BodyMetric) (float64, bool) {
	switch b {
	case types.Height:
		if m.Height != nil {
			return *m.Height, true
		}
	case types.Weight:
		if m.Weight != nil {
			return *m.Weight, true
		}
	case types.BMI:
		if m.Height != nil && m.Weight != nil && *m.Height > 0 {
			h := *m.Height / 100
			return *m.Weight / (h * h), true
		}
	}
	return 0, false
}

// Training is an entry of the remedial training catalog.
type Training struct {
	AbilityKey  types.Metric `json:"ability_key" yaml:"ability_key"`
	AgeGroup    string       `json:"age_group" yaml:"age_group"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	Reps        string       `json:"reps" yaml:"reps"`
	Effect      string       `json:"effect" yaml:"effect"`
	SortOrder   int          `json:"sort_order" yaml:"sort_order"`
}

// Age groups used to tag training content.
const (
	AgeYoung = "young"
	AgeOld   = "old"
)
