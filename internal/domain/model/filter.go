package model

import (
	"time"

	"github.com/okian/fitscore/internal/domain/types"
)

// Filter narrows a record query. Zero values mean no restriction. Start and
// End are calendar days; End includes the whole day.
type Filter struct {
	Grade   types.Grade  `json:"grade,omitempty"`
	Gender  types.Gender `json:"gender,omitempty"`
	StoreID string       `json:"store_id,omitempty"`
	Start   time.Time    `json:"start_date,omitzero"`
	End     time.Time    `json:"end_date,omitzero"`
}

// Until returns the exclusive upper bound of the filter window.
func (f Filter) Until() time.Time {
	if f.End.IsZero() {
		return time.Time{}
	}
	y, m, d := f.End.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, f.End.Location()).AddDate(0, 0, 1)
}

// Match reports whether r passes the filter.
func (f Filter) Match(r Record) bool {
	switch {
	case f.Grade != "" && r.Grade != f.Grade:
		return false
	case f.Gender != "" && r.Gender != f.Gender:
		return false
	case f.StoreID != "" && r.StoreID != f.StoreID:
		return false
	case !f.Start.IsZero() && r.MeasuredAt.Before(f.Start):
		return false
	case !f.End.IsZero() && !r.MeasuredAt.Before(f.Until()):
		return false
	}
	return true
}
