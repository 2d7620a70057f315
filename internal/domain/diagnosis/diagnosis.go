// Package diagnosis derives a developmental profile from a score vector:
// motor age, archetype, skill class, weakest ability, sport aptitude,
// remedial training and short-term goals.
package diagnosis

import (
	"time"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/reference"
	"github.com/okian/fitscore/internal/domain/scoring"
	"github.com/okian/fitscore/internal/domain/types"
)

// Result is the full diagnosis of one measurement.
type Result struct {
	ID            string           `json:"id"`
	RecordID      string           `json:"record_id,omitempty"`
	SubjectID     string           `json:"subject_id,omitempty"`
	Grade         types.Grade      `json:"grade"`
	Gender        types.Gender     `json:"gender"`
	Measured      types.Values     `json:"measured"`
	Scores        types.Scores     `json:"scores"`
	Deviations    types.Values     `json:"deviations"`
	AverageScore  float64          `json:"average_score"`
	ActualAge     float64          `json:"actual_age"`
	MotorAge      float64          `json:"motor_age"`
	MotorAgeDelta float64          `json:"motor_age_delta"`
	Archetype     Archetype        `json:"archetype"`
	Class         string           `json:"class"`
	WeakClass     WeakClass        `json:"weak_class"`
	Aptitudes     []Aptitude       `json:"aptitudes"`
	Trainings     []Recommendation `json:"trainings"`
	Goals         []Goal           `json:"goals"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Build assembles a diagnosis from a measurement and its scores. The caller
// assigns ID and CreatedAt.
func Build(m model.Measurement, sc scoring.Result, table *reference.Table, trainings []model.Training) Result {
	actual := ActualAge(m.Grade)
	motor := MotorAge(m.Grade, sc.Scores)
	return Result{
		RecordID:      m.RecordID,
		SubjectID:     m.SubjectID,
		Grade:         m.Grade,
		Gender:        m.Gender,
		Measured:      m.Values,
		Scores:        sc.Scores,
		Deviations:    sc.Deviations,
		AverageScore:  numeric.Round(sc.Scores.Mean(), 2),
		ActualAge:     actual,
		MotorAge:      motor,
		MotorAgeDelta: numeric.Round(motor-actual, 1),
		Archetype:     ClassifyArchetype(sc.Scores),
		Class:         DetermineClass(sc.Scores),
		WeakClass:     WeakestClass(sc.Scores),
		Aptitudes:     RankSports(Sports, sc.Scores),
		Trainings:     SelectTrainings(trainings, sc.Scores, m.Grade),
		Goals:         Goals(m.Values, sc.Scores, baselineScale{table: table, baseline: sc.Baseline}),
	}
}

// baselineScale inverts the deviation formula against one baseline.
type baselineScale struct {
	table    *reference.Table
	baseline reference.Baseline
}

func (b baselineScale) TargetFor(m types.Metric, score int) (float64, bool) {
	if score >= scoring.MaxScore || b.table == nil {
		return 0, false
	}
	mean, ok := b.baseline.Mean.Get(m)
	sd := b.table.StdDev(m)
	if !ok || sd <= 0 {
		return 0, false
	}
	dev := scoring.DeviationThreshold(score + 1)
	return scoring.RawForDeviation(m, dev, mean, sd), true
}
