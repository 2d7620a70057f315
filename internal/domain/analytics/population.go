package analytics

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/okian/fitscore/internal/domain/diagnosis"
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/reference"
	"github.com/okian/fitscore/internal/domain/scoring"
	"github.com/okian/fitscore/internal/domain/types"
)

// StoreStats holds one store's means and their difference to the overall
// population.
type StoreStats struct {
	StoreID string                   `json:"store_id"`
	Count   int                      `json:"count"`
	Means   map[types.Metric]float64 `json:"means"`
	Diff    map[types.Metric]float64 `json:"diff"`
}

// Overall summarizes the comparison population.
type Overall struct {
	Count int                      `json:"count"`
	Means map[types.Metric]float64 `json:"means"`
}

// StoreComparisonResult is the store-comparison analytics payload.
type StoreComparisonResult struct {
	Stores  []StoreStats `json:"stores"`
	Overall Overall      `json:"overall"`
}

// StoreComparison compares per-store means in stores against the means of
// overall. Stores are ordered by ID; records without a store are ignored.
func StoreComparison(stores, overall []model.Measurement) StoreComparisonResult {
	all := means(overall)
	byStore := make(map[string][]model.Measurement)
	for _, m := range stores {
		if m.StoreID != "" {
			byStore[m.StoreID] = append(byStore[m.StoreID], m)
		}
	}
	ids := make([]string, 0, len(byStore))
	for id := range byStore {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	res := StoreComparisonResult{
		Stores:  make([]StoreStats, 0, len(ids)),
		Overall: Overall{Count: len(overall), Means: roundAll(all, statDecimals)},
	}
	for _, id := range ids {
		sm := means(byStore[id])
		diff := make(map[types.Metric]float64, len(sm))
		for k, v := range sm {
			if o, ok := all[k]; ok {
				diff[k] = numeric.Round(v-o, statDecimals)
			}
		}
		res.Stores = append(res.Stores, StoreStats{
			StoreID: id,
			Count:   len(byStore[id]),
			Means:   roundAll(sm, statDecimals),
			Diff:    diff,
		})
	}
	return res
}

// Percent is a percentage that encodes NaN and infinities as JSON null.
type Percent float64

// MarshalJSON implements json.Marshaler.
func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// WeaknessEntry counts how often a metric was a subject's weakest.
type WeaknessEntry struct {
	Metric     types.Metric `json:"metric"`
	Count      int          `json:"count"`
	Percentage Percent      `json:"percentage"`
}

// WeaknessResult is the weakness analytics payload.
type WeaknessResult struct {
	TotalSamples int             `json:"total_samples"`
	Skipped      int             `json:"skipped"`
	Ranking      []WeaknessEntry `json:"ranking"`
}

// Weakness scores every measurement with a baseline and ranks metrics by how
// often they were the weakest. The percentage is count/total*100 with no
// guard for an empty sample, so it is NaN when nothing was scored.
func Weakness(table *reference.Table, ms []model.Measurement) WeaknessResult {
	var counts [types.NumMetrics]int
	res := WeaknessResult{}
	for _, m := range ms {
		sc, err := scoring.Score(table, m)
		if err != nil {
			res.Skipped++
			continue
		}
		counts[diagnosis.Weakest(sc.Scores)]++
		res.TotalSamples++
	}
	total := float64(res.TotalSamples)
	ranking := make([]WeaknessEntry, 0, types.NumMetrics)
	for _, k := range types.Metrics {
		pct := float64(counts[k]) / total * 100
		ranking = append(ranking, WeaknessEntry{Metric: k, Count: counts[k], Percentage: Percent(numeric.Round(pct, 1))})
	}
	sort.SliceStable(ranking, func(i, j int) bool { return ranking[i].Count > ranking[j].Count })
	res.Ranking = ranking
	return res
}

// ArchetypeProfile is the average score vector of one archetype.
type ArchetypeProfile struct {
	Archetype  diagnosis.Archetype      `json:"archetype"`
	Count      int                      `json:"count"`
	MeanScores map[types.Metric]float64 `json:"mean_scores"`
}

// TypeValidation classifies every scoreable measurement and averages the
// scores per archetype. Profiles are ordered by count, then key.
func TypeValidation(table *reference.Table, ms []model.Measurement) []ArchetypeProfile {
	type acc struct {
		arch diagnosis.Archetype
		n    int
		sums [types.NumMetrics]float64
	}
	groups := make(map[string]*acc)
	for _, m := range ms {
		sc, err := scoring.Score(table, m)
		if err != nil {
			continue
		}
		a := diagnosis.ClassifyArchetype(sc.Scores)
		g, ok := groups[a.Key]
		if !ok {
			g = &acc{arch: a}
			groups[a.Key] = g
		}
		g.n++
		for _, k := range types.Metrics {
			g.sums[k] += float64(sc.Scores[k])
		}
	}
	out := make([]ArchetypeProfile, 0, len(groups))
	for _, g := range groups {
		p := ArchetypeProfile{Archetype: g.arch, Count: g.n, MeanScores: make(map[types.Metric]float64, types.NumMetrics)}
		for _, k := range types.Metrics {
			p.MeanScores[k] = numeric.Round(g.sums[k]/float64(g.n), statDecimals)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Archetype.Key < out[j].Archetype.Key
	})
	return out
}
