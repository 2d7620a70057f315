package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/types"
)

// DefaultCohortLimit caps the per-subject list of a cohort result.
const DefaultCohortLimit = 50

// Visit is one measurement of a tracked subject.
type Visit struct {
	RecordID   string       `json:"record_id,omitempty"`
	Grade      types.Grade  `json:"grade"`
	Values     types.Values `json:"values"`
	MeasuredAt time.Time    `json:"measured_at"`
}

// CohortEntry is one subject's growth between the first and last visit.
type CohortEntry struct {
	SubjectID   string                   `json:"subject_id"`
	Visits      []Visit                  `json:"visits"`
	Improvement map[types.Metric]float64 `json:"improvement"`
}

// CohortResult is the cohort analytics payload.
type CohortResult struct {
	TotalSubjects      int                      `json:"total_subjects"`
	Subjects           []CohortEntry            `json:"subjects"`
	AverageImprovement map[types.Metric]float64 `json:"average_improvement"`
	ValidCounts        map[types.Metric]int     `json:"valid_counts"`
}

// Improvement returns the percentage change from first to last in the
// metric's better direction. It is false when first is missing or 0, or
// last is missing.
func Improvement(k types.Metric, first, last types.Values) (float64, bool) {
	f, ok := first.Get(k)
	if !ok || f == 0 {
		return 0, false
	}
	l, ok := last.Get(k)
	if !ok {
		return 0, false
	}
	if k.HigherIsBetter() {
		return (l - f) / f * 100, true
	}
	return (f - l) / f * 100, true
}

// Cohort tracks subjects with at least two measurements. Subjects keep the
// order of their first appearance in ms. The returned list is truncated to
// limit (DefaultCohortLimit when limit <= 0) but the average covers every
// subject.
func Cohort(ms []model.Measurement, limit int) CohortResult {
	if limit <= 0 {
		limit = DefaultCohortLimit
	}
	var order []string
	bySubject := make(map[string][]model.Measurement)
	for _, m := range ms {
		if m.SubjectID == "" {
			continue
		}
		if _, ok := bySubject[m.SubjectID]; !ok {
			order = append(order, m.SubjectID)
		}
		bySubject[m.SubjectID] = append(bySubject[m.SubjectID], m)
	}

	sums := make(map[types.Metric]float64)
	counts := make(map[types.Metric]int)
	entries := []CohortEntry{}
	for _, id := range order {
		visits := bySubject[id]
		if len(visits) < 2 {
			continue
		}
		sort.SliceStable(visits, func(i, j int) bool { return visits[i].MeasuredAt.Before(visits[j].MeasuredAt) })
		first, last := visits[0].Values, visits[len(visits)-1].Values

		entry := CohortEntry{SubjectID: id, Improvement: make(map[types.Metric]float64)}
		for _, v := range visits {
			entry.Visits = append(entry.Visits, Visit{RecordID: v.RecordID, Grade: v.Grade, Values: v.Values, MeasuredAt: v.MeasuredAt})
		}
		for _, k := range types.Metrics {
			imp, ok := Improvement(k, first, last)
			if !ok {
				continue
			}
			entry.Improvement[k] = numeric.Round(imp, 1)
			if !math.IsNaN(imp) {
				sums[k] += imp
				counts[k]++
			}
		}
		entries = append(entries, entry)
	}

	avg := make(map[types.Metric]float64, len(counts))
	for k, n := range counts {
		avg[k] = numeric.Round(sums[k]/float64(n), 1)
	}
	res := CohortResult{TotalSubjects: len(entries), AverageImprovement: avg, ValidCounts: counts}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	res.Subjects = entries
	return res
}
