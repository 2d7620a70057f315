package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/normalize"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/reference"
	"github.com/okian/fitscore/internal/domain/types"
)

// Generation constants.
const (
	missingRate   = 0.08 // chance a station skipped one metric
	sprint50mRate = 0.25 // chance the dash was run over 50 m
	oddBallRate   = 0.2  // chance the throw used a non-standard ball
	yearlyGrowth  = 0.06 // relative improvement per year of follow-up
	talentSpread  = 0.8  // stddevs of per-subject talent
	noiseSpread   = 0.5  // stddevs of per-visit noise
)

var (
	ballDiameters = []float64{10, 12, 14, 16}
	ballWeights   = []float64{150, 200, 300}
)

// Generate produces cfg.Subjects*cfg.Visits records. Each subject keeps one
// store, grade and gender and improves slightly between visits, so cohort
// and trend analytics have something to find.
func Generate(cfg Config) []model.Record {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	table := reference.Default()

	out := make([]model.Record, 0, cfg.Subjects*cfg.Visits)
	for s := 0; s < cfg.Subjects; s++ {
		subject := uuid.Must(uuid.NewRandomFromReader(rng2reader{rng}))
		store := fmt.Sprintf("store-%02d", rng.IntN(cfg.Stores)+1)
		grade := types.Grades[rng.IntN(len(types.Grades))]
		gender := types.Genders[rng.IntN(len(types.Genders))]
		baseline, err := table.Baseline(grade, gender)
		if err != nil {
			continue
		}

		var talent [types.NumMetrics]float64
		for _, m := range types.Metrics {
			talent[m] = rng.NormFloat64() * talentSpread
		}
		height, weight := body(rng, grade)

		first := cfg.Start.AddDate(0, rng.IntN(max(cfg.Span/2, 1)), rng.IntN(28))
		for v := 0; v < cfg.Visits; v++ {
			at := first.AddDate(0, v*max(cfg.Span/(2*cfg.Visits), 1), 0)
			years := at.Sub(first).Hours() / (24 * 365)
			rec := model.Record{
				ID:         uuid.Must(uuid.NewRandomFromReader(rng2reader{rng})).String(),
				SubjectID:  subject.String(),
				StoreID:    store,
				Grade:      grade,
				Gender:     gender,
				Height:     ptr(numeric.Round(height*(1+0.03*years), 1)),
				Weight:     ptr(numeric.Round(weight*(1+0.05*years), 1)),
				MeasuredAt: at.Truncate(time.Minute),
			}
			for _, m := range types.Metrics {
				if rng.Float64() < missingRate {
					continue
				}
				mean, _ := baseline.Mean.Get(m)
				z := talent[m] + rng.NormFloat64()*noiseSpread
				val := mean + z*table.StdDev(m)
				growth := 1 + yearlyGrowth*years
				if m.HigherIsBetter() {
					val *= growth
				} else {
					val /= growth
				}
				setMetric(&rec, rng, grade, m, math.Max(val, 0.1))
			}
			out = append(out, rec)
		}
	}
	return out
}

// setMetric stores a canonical value v on rec, converting it back to the
// equipment the station may have used.
func setMetric(rec *model.Record, rng *rand.Rand, g types.Grade, m types.Metric, v float64) {
	switch m {
	case types.Grip:
		skew := 1 + (rng.Float64()-0.5)*0.1
		rec.GripRight = ptr(numeric.Round(v*skew, 1))
		rec.GripLeft = ptr(numeric.Round(v*(2-skew), 1))
	case types.Jump:
		rec.Jump = ptr(numeric.Round(v, 0))
	case types.Dash:
		if t50 := normalize.SprintTo50m(g, v); t50 > 0 && rng.Float64() < sprint50mRate {
			rec.Dash = ptr(numeric.Round(t50, 2))
			rec.DashDist = normalize.LongDashDistance
			return
		}
		rec.Dash = ptr(numeric.Round(v, 2))
		rec.DashDist = normalize.CanonicalDashDistance
	case types.DoubleJump:
		rec.DoubleJump = ptr(numeric.Round(v, 0))
	case types.Squat:
		rec.Squat = ptr(numeric.Round(v, 0))
	case types.Sidestep:
		rec.Sidestep = ptr(numeric.Round(v, 0))
	case types.Throw:
		if rng.Float64() < oddBallRate {
			rec.BallDiameter = ballDiameters[rng.IntN(len(ballDiameters))]
			rec.BallWeight = ballWeights[rng.IntN(len(ballWeights))]
			v /= normalize.DiameterFactor(rec.BallDiameter) * normalize.WeightFactor(rec.BallWeight)
		}
		rec.Throw = ptr(numeric.Round(v, 1))
	}
}

// body returns a plausible height (cm) and weight (kg) for g.
func body(rng *rand.Rand, g types.Grade) (float64, float64) {
	idx := float64(g.Index())
	height := 110 + 6*idx + rng.NormFloat64()*5
	bmi := 15.5 + 0.3*idx + rng.NormFloat64()*1.5
	h := height / 100
	return height, bmi * h * h
}

// rng2reader feeds uuid generation from the seeded source.
type rng2reader struct{ r *rand.Rand }

func (r rng2reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.r.Uint32())
	}
	return len(p), nil
}

func ptr(v float64) *float64 { return &v }
