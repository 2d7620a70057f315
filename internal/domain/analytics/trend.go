package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/numeric"
	"github.com/okian/fitscore/internal/domain/types"
)

// BucketKey formats t for the given period: YYYY-MM, YYYY-Qn or YYYY.
func BucketKey(t time.Time, p Period) string {
	switch p {
	case PeriodYear:
		return fmt.Sprintf("%04d", t.Year())
	case PeriodQuarter:
		return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())+2)/3)
	default:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}
}

// previousYearKey decrements the year component of a bucket key and keeps
// the rest.
func previousYearKey(key string) (string, bool) {
	if len(key) < 4 {
		return "", false
	}
	year, err := strconv.Atoi(key[:4])
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%04d", year-1) + key[4:], true
}

// Bucket is one period of a trend series.
type Bucket struct {
	Key   string                   `json:"key"`
	Count int                      `json:"count"`
	Means map[types.Metric]float64 `json:"means"`
	raw   map[types.Metric]float64
}

// YoY is the year-over-year change of one bucket in percent.
type YoY struct {
	Key     string                   `json:"key"`
	PrevKey string                   `json:"prev_key"`
	Change  map[types.Metric]float64 `json:"change"`
}

// TrendResult is the trend analytics payload.
type TrendResult struct {
	Period  Period   `json:"period"`
	Buckets []Bucket `json:"buckets"`
	YoY     []YoY    `json:"yoy"`
}

// Trend buckets measurements by period and computes the mean per metric.
// When only is non-nil the series carries that metric alone.
func Trend(ms []model.Measurement, p Period, only *types.Metric) TrendResult {
	groups := make(map[string][]model.Measurement)
	for _, m := range ms {
		k := BucketKey(m.MeasuredAt, p)
		groups[k] = append(groups[k], m)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		raw := means(groups[k])
		if only != nil {
			for m := range raw {
				if m != *only {
					delete(raw, m)
				}
			}
		}
		buckets = append(buckets, Bucket{Key: k, Count: len(groups[k]), Means: roundAll(raw, statDecimals), raw: raw})
	}
	return TrendResult{Period: p, Buckets: buckets, YoY: YearOverYear(buckets)}
}

// YearOverYear compares every bucket except the earliest with the same
// bucket one year before, when it exists. Metrics whose previous mean is 0
// are skipped.
func YearOverYear(buckets []Bucket) []YoY {
	index := make(map[string]Bucket, len(buckets))
	for _, b := range buckets {
		index[b.Key] = b
	}
	out := []YoY{}
	for i, b := range buckets {
		if i == 0 {
			continue
		}
		pk, ok := previousYearKey(b.Key)
		if !ok {
			continue
		}
		prev, ok := index[pk]
		if !ok {
			continue
		}
		cur, old := b.source(), prev.source()
		change := make(map[types.Metric]float64)
		for m, v := range cur {
			pv, ok := old[m]
			if !ok || pv == 0 {
				continue
			}
			change[m] = numeric.Round((v-pv)/pv*100, 1)
		}
		out = append(out, YoY{Key: b.Key, PrevKey: pk, Change: change})
	}
	return out
}

// source returns the unrounded means when available.
func (b Bucket) source() map[types.Metric]float64 {
	if b.raw != nil {
		return b.raw
	}
	return b.Means
}
