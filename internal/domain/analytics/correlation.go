package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/types"
)

const (
	correlationDecimals = 3

	// StrongPositive is the lower bound for a strong positive insight.
	StrongPositive = 0.6
	// Negative is the upper bound for a negative insight.
	Negative = -0.4
)

// Pearson returns the correlation coefficient of x and y. Extra elements of
// the longer slice are ignored. It is 0 when either variance is 0.
func Pearson(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n == 0 {
		return 0
	}
	var mx, my float64
	for i := range n {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var sxy, sxx, syy float64
	for i := range n {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}
	return sxy / math.Sqrt(sxx*syy)
}

// polarityFlip reports whether a correlation between a and b must be negated
// so that a positive coefficient always means "better goes with better".
// Self-pairs never flip.
func polarityFlip(a, b types.Metric) bool {
	return a != b && a.HigherIsBetter() != b.HigherIsBetter()
}

// Matrix is a symmetric correlation matrix over all metrics.
type Matrix [types.NumMetrics][types.NumMetrics]float64

// At returns the coefficient for (a, b).
func (mx Matrix) At(a, b types.Metric) float64 { return mx[a][b] }

// MarshalJSON encodes the matrix as nested objects keyed by metric name.
func (mx Matrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range types.Metrics {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:{", a.String())
		for j, b := range types.Metrics {
			if j > 0 {
				buf.WriteByte(',')
			}
			v, err := json.Marshal(mx[a][b])
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "%q:%s", b.String(), v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// pairs collects the samples where both a and b are present.
func pairs(ms []model.Measurement, a, b types.Metric) (xs, ys []float64) {
	for _, m := range ms {
		x, okx := m.Values.Get(a)
		y, oky := m.Values.Get(b)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// CorrelationMatrix correlates every pair of metrics over the samples where
// both are present, rounded to 3 decimals.
func CorrelationMatrix(ms []model.Measurement) Matrix {
	var out Matrix
	for _, a := range types.Metrics {
		for _, b := range types.Metrics {
			if b < a {
				out[a][b] = out[b][a]
				continue
			}
			r := Pearson(pairs(ms, a, b))
			if polarityFlip(a, b) {
				r = -r
			}
			out[a][b] = numeric.Round(r, correlationDecimals)
		}
	}
	return out
}

// BodyCorrelations correlates each body attribute with each metric. A
// positive coefficient means a larger attribute goes with better performance.
func BodyCorrelations(ms []model.Measurement) map[types.BodyMetric]map[types.Metric]float64 {
	out := make(map[types.BodyMetric]map[types.Metric]float64, len(types.BodyMetrics))
	for _, b := range types.BodyMetrics {
		row := make(map[types.Metric]float64, types.NumMetrics)
		for _, k := range types.Metrics {
			xs, ys := bodyPoints(ms, b, k)
			r := Pearson(xs, ys)
			if !k.HigherIsBetter() {
				r = -r
			}
			row[k] = numeric.Round(r, correlationDecimals)
		}
		out[b] = row
	}
	return out
}

func bodyPoints(ms []model.Measurement, b types.BodyMetric, k types.Metric) (xs, ys []float64) {
	for _, m := range ms {
		x, okx := m.Body(b)
		y, oky := m.Values.Get(k)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// Insight kinds.
const (
	InsightStrongPositive = "strong_positive"
	InsightNegative       = "negative"
)

// Insight is a notable correlation between two metrics.
type Insight struct {
	Kind    string       `json:"kind"`
	A       types.Metric `json:"a"`
	B       types.Metric `json:"b"`
	R       float64      `json:"r"`
	Message string       `json:"message"`
}

// Insights scans the off-diagonal entries for strong positive and negative
// correlations. Each unordered pair yields at most one insight.
func Insights(mx Matrix) []Insight {
	seen := make(map[string]bool)
	out := []Insight{}
	for _, a := range types.Metrics {
		for _, b := range types.Metrics {
			if a == b {
				continue
			}
			r := mx[a][b]
			var kind, msg string
			switch {
			case r >= StrongPositive:
				kind = InsightStrongPositive
				msg = fmt.Sprintf("%s and %s are strongly positively correlated (r=%.2f)", a, b, r)
			case r <= Negative:
				kind = InsightNegative
				msg = fmt.Sprintf("%s and %s are negatively correlated (r=%.2f)", a, b, r)
			default:
				continue
			}
			key := pairKey(a, b)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, Insight{Kind: kind, A: a, B: b, R: r, Message: msg})
		}
	}
	return out
}

func pairKey(a, b types.Metric) string {
	names := []string{a.String(), b.String()}
	sort.Strings(names)
	return names[0] + "|" + names[1]
}

// CorrelationResult is the correlation analytics payload.
type CorrelationResult struct {
	Matrix     Matrix                                        `json:"matrix"`
	Body       map[types.BodyMetric]map[types.Metric]float64 `json:"body"`
	Insights   []Insight                                     `json:"insights"`
	SampleSize int                                           `json:"sample_size"`
}

// Correlation builds the matrix, body correlations and insights.
func Correlation(ms []model.Measurement) CorrelationResult {
	mx := CorrelationMatrix(ms)
	return CorrelationResult{
		Matrix:     mx,
		Body:       BodyCorrelations(ms),
		Insights:   Insights(mx),
		SampleSize: len(ms),
	}
}
