package reference

import "github.com/okian/fitscore/internal/domain/types"

// Default stddev per metric, in raw units.
var defaultStdDev = [types.NumMetrics]float64{
	types.Grip:       3.5,
	types.Jump:       18,
	types.Dash:       0.26,
	types.DoubleJump: 8,
	types.Squat:      5,
	types.Sidestep:   6,
	types.Throw:      4.5,
}

// Default means, ordered grip, jump, dash(15m), doublejump, squat, sidestep, throw.
var defaultMeans = map[types.Grade]map[types.Gender][types.NumMetrics]float64{
	types.GradeK5: {
		types.Male:   {9.5, 105, 4.2, 10, 12, 25, 6.0},
		types.Female: {9.0, 98, 4.3, 11, 11, 24, 4.0},
	},
	types.Grade1: {
		types.Male:   {11.0, 115, 3.95, 14, 14, 28, 8.0},
		types.Female: {10.4, 108, 4.05, 15, 13, 27, 5.2},
	},
	types.Grade2: {
		types.Male:   {12.8, 125, 3.75, 18, 16, 32, 11.0},
		types.Female: {12.0, 118, 3.85, 19, 15, 31, 6.8},
	},
	types.Grade3: {
		types.Male:   {15.0, 135, 3.5, 22, 18, 36, 14.0},
		types.Female: {14.2, 128, 3.6, 23, 17, 35, 8.5},
	},
	types.Grade4: {
		types.Male:   {17.5, 145, 3.3, 26, 20, 40, 17.5},
		types.Female: {16.7, 138, 3.4, 27, 19, 39, 10.5},
	},
	types.Grade5: {
		types.Male:   {20.0, 155, 3.15, 30, 22, 43, 21.0},
		types.Female: {19.5, 148, 3.25, 31, 21, 42, 12.5},
	},
	types.Grade6: {
		types.Male:   {23.5, 165, 3.0, 34, 24, 46, 24.5},
		types.Female: {22.5, 155, 3.12, 35, 23, 44, 14.5},
	},
}

// Default returns the built-in reference table.
func Default() *Table {
	t := &Table{means: make(map[key]types.Values), stddev: defaultStdDev}
	for grade, byGender := range defaultMeans {
		for gender, row := range byGender {
			var vs types.Values
			for _, m := range types.Metrics {
				vs.Set(m, row[m])
			}
			t.means[key{grade, gender}] = vs
		}
	}
	return t
}
