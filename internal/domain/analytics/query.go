// Package analytics aggregates many measurements into population statistics:
// benchmarks, correlation, regression, trends and cohort growth. Every
// function is a pure transformation recomputed on each call.
package analytics

import (
	"fmt"
	"strings"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/types"
)

// Type selects an analytics computation.
type Type string

// Supported analytics types.
const (
	TypeBenchmark       Type = "benchmark"
	TypeCorrelation     Type = "correlation"
	TypeStoreComparison Type = "store-comparison"
	TypeTrend           Type = "trend"
	TypeWeakness        Type = "weakness"
	TypeScatter         Type = "scatter"
	TypeTypeValidation  Type = "type-validation"
	TypeCohort          Type = "cohort"
)

// Types lists every supported analytics type.
var Types = []Type{
	TypeBenchmark, TypeCorrelation, TypeStoreComparison, TypeTrend,
	TypeWeakness, TypeScatter, TypeTypeValidation, TypeCohort,
}

// ParseType resolves an analytics type name.
func ParseType(s string) (Type, error) {
	t := Type(strings.TrimSpace(s))
	for _, v := range Types {
		if v == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Period is a trend bucket granularity.
type Period string

// Supported periods.
const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ParsePeriod resolves a period name; empty means month.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodMonth, nil
	case PeriodMonth, PeriodQuarter, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown period %q", ErrInvalidQuery, s)
	}
}

// Query is a parsed analytics request.
type Query struct {
	Type       Type
	Filter     model.Filter
	Period     Period
	Metric     *types.Metric
	BodyMetric types.BodyMetric
}
