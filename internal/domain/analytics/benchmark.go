package analytics

import (
	"github.com/montanaflynn/stats"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/types"
)

const statDecimals = 2

// Summary holds descriptive statistics for one metric.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// BenchmarkGroup holds the statistics for one (grade, gender) group.
type BenchmarkGroup struct {
	Grade   types.Grade              `json:"grade"`
	Gender  types.Gender             `json:"gender"`
	Count   int                      `json:"count"`
	Metrics map[types.Metric]Summary `json:"metrics"`
}

// Summarize computes mean, median, population stddev, min and max, each
// rounded to 2 decimals. The second return is false for an empty slice.
func Summarize(xs []float64) (Summary, bool) {
	if len(xs) == 0 {
		return Summary{}, false
	}
	data := stats.Float64Data(xs)
	mean, _ := data.Mean()
	median, _ := data.Median()
	sd, _ := stats.StandardDeviationPopulation(data)
	lo, _ := data.Min()
	hi, _ := data.Max()
	return Summary{
		Count:  len(xs),
		Mean:   numeric.Round(mean, statDecimals),
		Median: numeric.Round(median, statDecimals),
		StdDev: numeric.Round(sd, statDecimals),
		Min:    numeric.Round(lo, statDecimals),
		Max:    numeric.Round(hi, statDecimals),
	}, true
}

// Benchmark groups measurements by grade x gender over the fixed sets.
// Empty groups and metrics without values are omitted; records outside the
// fixed sets are dropped.
func Benchmark(ms []model.Measurement) []BenchmarkGroup {
	var out []BenchmarkGroup
	for _, g := range types.Grades {
		for _, gen := range types.Genders {
			var group []model.Measurement
			for _, m := range ms {
				if m.Grade == g && m.Gender == gen {
					group = append(group, m)
				}
			}
			if len(group) == 0 {
				continue
			}
			bg := BenchmarkGroup{Grade: g, Gender: gen, Count: len(group), Metrics: map[types.Metric]Summary{}}
			for _, k := range types.Metrics {
				if s, ok := Summarize(values(group, k)); ok {
					bg.Metrics[k] = s
				}
			}
			out = append(out, bg)
		}
	}
	return out
}

// values collects the present values of metric k.
func values(ms []model.Measurement, k types.Metric) []float64 {
	var xs []float64
	for _, m := range ms {
		if v, ok := m.Values.Get(k); ok {
			xs = append(xs, v)
		}
	}
	return xs
}

// means returns the mean per metric over present values.
func means(ms []model.Measurement) map[types.Metric]float64 {
	out := make(map[types.Metric]float64, types.NumMetrics)
	for _, k := range types.Metrics {
		if xs := values(ms, k); len(xs) > 0 {
			out[k] = numeric.Mean(xs)
		}
	}
	return out
}

func roundAll(in map[types.Metric]float64, places int) map[types.Metric]float64 {
	out := make(map[types.Metric]float64, len(in))
	for k, v := range in {
		out[k] = numeric.Round(v, places)
	}
	return out
}
