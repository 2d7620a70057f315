package diagnosis

import (
	"sort"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/types"
)

// Aptitude levels by rank.
const (
	LevelHigh     = "high"
	LevelModerate = "moderate"
	LevelLow      = "low"

	levelBand = 3
)

// Training priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

const (
	weakAbilities      = 2
	trainingsPerWeak   = 2
	goalCount          = 3
	defaultGoalDecimal = 1
	dashGoalDecimal    = 2
)

// Aptitude is a sport ranked by fit to a score vector.
type Aptitude struct {
	Sport Sport   `json:"sport"`
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

// SportAptitude is the mean of the subject's scores on the sport's required
// metrics.
func SportAptitude(sp Sport, s types.Scores) float64 {
	if len(sp.Requires) == 0 {
		return 0
	}
	sum := 0
	for _, m := range sp.Requires {
		sum += s[m]
	}
	return float64(sum) / float64(len(sp.Requires))
}

// RankSports ranks the catalog by aptitude, highest first. Ties keep catalog
// order. The first three are tagged high, the next three moderate.
func RankSports(catalog []Sport, s types.Scores) []Aptitude {
	out := make([]Aptitude, len(catalog))
	for i, sp := range catalog {
		out[i] = Aptitude{Sport: sp, Score: SportAptitude(sp, s)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		switch {
		case i < levelBand:
			out[i].Level = LevelHigh
		case i < 2*levelBand:
			out[i].Level = LevelModerate
		default:
			out[i].Level = LevelLow
		}
		out[i].Score = numeric.Round(out[i].Score, 2)
	}
	return out
}

// AgeBracket returns the training age group for a grade.
func AgeBracket(g types.Grade) string {
	switch g {
	case types.GradeK5, types.Grade1, types.Grade2:
		return model.AgeYoung
	default:
		return model.AgeOld
	}
}

// Recommendation is a selected training item.
type Recommendation struct {
	model.Training
	Priority string `json:"priority"`
}

// SelectTrainings picks at most two catalog items for each of the two weakest
// abilities. The first item of the weakest ability is high priority.
func SelectTrainings(catalog []model.Training, s types.Scores, g types.Grade) []Recommendation {
	bracket := AgeBracket(g)
	out := []Recommendation{}
	for rank, ability := range s.Ascending()[:weakAbilities] {
		items := make([]model.Training, 0, trainingsPerWeak)
		for _, t := range catalog {
			if t.AbilityKey == ability && t.AgeGroup == bracket {
				items = append(items, t)
			}
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].SortOrder < items[j].SortOrder })
		if len(items) > trainingsPerWeak {
			items = items[:trainingsPerWeak]
		}
		for i, t := range items {
			p := PriorityMedium
			if rank == 0 && i == 0 {
				p = PriorityHigh
			}
			out = append(out, Recommendation{Training: t, Priority: p})
		}
	}
	return out
}

// Goal is a one-month numeric target for a metric.
type Goal struct {
	Metric  types.Metric `json:"metric"`
	Current float64      `json:"current"`
	Target  float64      `json:"target"`
	Unit    string       `json:"unit"`
}

// Scale abstracts how a raw value maps to a score boundary, so goal setting
// stays independent of the scoring package.
type Scale interface {
	// TargetFor returns the raw value that reaches the next score for m.
	TargetFor(m types.Metric, score int) (float64, bool)
}

// Goals sets targets for the three lowest-scoring measured metrics. A metric
// already at the top score keeps its current value as target.
func Goals(values types.Values, s types.Scores, scale Scale) []Goal {
	goals := make([]Goal, 0, goalCount)
	for _, m := range s.Ascending() {
		if len(goals) == goalCount {
			break
		}
		current, ok := values.Get(m)
		if !ok {
			continue
		}
		places := defaultGoalDecimal
		if m == types.Dash {
			places = dashGoalDecimal
		}
		target := current
		if t, ok := scale.TargetFor(m, s[m]); ok {
			target = t
		}
		goals = append(goals, Goal{
			Metric:  m,
			Current: numeric.Round(current, places),
			Target:  numeric.Round(target, places),
			Unit:    units[m],
		})
	}
	return goals
}
