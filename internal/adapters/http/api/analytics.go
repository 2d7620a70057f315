package api

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/fitscore/internal/domain/analytics"
	"github.com/okian/fitscore/internal/domain/types"
)

// dateLayout is the calendar-day format of start_date and end_date.
const dateLayout = "2006-01-02"

// AnalyticsHandler handles analytics requests.
type AnalyticsHandler struct {
	deps AnalyticsDependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps AnalyticsDependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// HandleGetAnalytics handles GET /analytics?type=... requests.
func (h *AnalyticsHandler) HandleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analytics"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Analytics(r.Context(), q)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ParseQuery builds an analytics query from URL parameters. Unknown types
// wrap analytics.ErrUnknownType; every other malformed value wraps
// analytics.ErrInvalidQuery.
func ParseQuery(v url.Values) (analytics.Query, error) {
	var q analytics.Query

	t, err := analytics.ParseType(v.Get("type"))
	if err != nil {
		return q, err
	}
	q.Type = t

	if s := v.Get("grade"); s != "" {
		g, err := types.ParseGrade(s)
		if err != nil {
			return q, fmt.Errorf("%w: %w", analytics.ErrInvalidQuery, err)
		}
		q.Filter.Grade = g
	}
	if s := v.Get("gender"); s != "" {
		g, err := types.ParseGender(s)
		if err != nil {
			return q, fmt.Errorf("%w: %w", analytics.ErrInvalidQuery, err)
		}
		q.Filter.Gender = g
	}
	q.Filter.StoreID = v.Get("store_id")

	if q.Filter.Start, err = parseDate(v.Get("start_date")); err != nil {
		return q, err
	}
	if q.Filter.End, err = parseDate(v.Get("end_date")); err != nil {
		return q, err
	}
	if !q.Filter.Start.IsZero() && !q.Filter.End.IsZero() && q.Filter.End.Before(q.Filter.Start) {
		return q, fmt.Errorf("%w: end_date before start_date", analytics.ErrInvalidQuery)
	}

	if q.Period, err = analytics.ParsePeriod(v.Get("period")); err != nil {
		return q, err
	}
	if s := v.Get("metric"); s != "" {
		m, err := types.ParseMetric(s)
		if err != nil {
			return q, fmt.Errorf("%w: %w", analytics.ErrInvalidQuery, err)
		}
		q.Metric = &m
	}
	if s := v.Get("body_metric"); s != "" {
		b, err := types.ParseBodyMetric(s)
		if err != nil {
			return q, fmt.Errorf("%w: %w", analytics.ErrInvalidQuery, err)
		}
		q.BodyMetric = b
	}
	return q, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", analytics.ErrInvalidQuery, s)
	}
	return t, nil
}
