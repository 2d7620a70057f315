package analytics

import (
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/types"
)

const regressionDecimals = 4

// Regression is an ordinary least squares line y = Slope*x + Intercept.
type Regression struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// LinearRegression fits y on x. A degenerate x yields a flat line through
// the mean of y; no samples yield the zero line.
func LinearRegression(x, y []float64) Regression {
	n := min(len(x), len(y))
	if n == 0 {
		return Regression{}
	}
	mx := numeric.Mean(x[:n])
	my := numeric.Mean(y[:n])
	var sxy, sxx float64
	for i := range n {
		dx := x[i] - mx
		sxy += dx * (y[i] - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return Regression{Intercept: my}
	}
	slope := sxy / sxx
	return Regression{Slope: slope, Intercept: my - slope*mx}
}

// Point is one (body, ability) sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterResult is the scatter analytics payload.
type ScatterResult struct {
	BodyMetric  types.BodyMetric `json:"body_metric"`
	Metric      types.Metric     `json:"metric"`
	Points      []Point          `json:"points"`
	Regression  Regression       `json:"regression"`
	Correlation float64          `json:"correlation"`
	SampleSize  int              `json:"sample_size"`
}

// Scatter pairs a body attribute with an ability. Points and the regression
// line use the raw values; only the reported correlation is flipped for a
// lower-is-better metric.
func Scatter(ms []model.Measurement, b types.BodyMetric, k types.Metric) ScatterResult {
	xs, ys := bodyPoints(ms, b, k)
	points := make([]Point, len(xs))
	for i := range xs {
		points[i] = Point{X: xs[i], Y: ys[i]}
	}
	reg := LinearRegression(xs, ys)
	r := Pearson(xs, ys)
	if !k.HigherIsBetter() {
		r = -r
	}
	return ScatterResult{
		BodyMetric: b,
		Metric:     k,
		Points:     points,
		Regression: Regression{
			Slope:     numeric.Round(reg.Slope, regressionDecimals),
			Intercept: numeric.Round(reg.Intercept, regressionDecimals),
		},
		Correlation: numeric.Round(r, correlationDecimals),
		SampleSize:  len(points),
	}
}
