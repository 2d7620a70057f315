package model_test

import (
	"errors"
	"testing"
	"time"

	model "github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestFilterMatch(t *testing.T) {
	convey.Convey("Given a filter over a date window", t, func() {
		f := model.Filter{Grade: types.Grade3, StoreID: "s1", Start: day(2024, 4, 1), End: day(2024, 4, 30)}
		r := model.Record{Grade: types.Grade3, Gender: types.Female, StoreID: "s1", MeasuredAt: day(2024, 4, 30).Add(23 * time.Hour)}

		convey.Convey("Then the end day should be inclusive", func() {
			convey.So(f.Match(r), convey.ShouldBeTrue)
			convey.So(f.Until(), convey.ShouldEqual, day(2024, 5, 1))
		})

		convey.Convey("Then records outside the window or group should not match", func() {
			late := r
			late.MeasuredAt = day(2024, 5, 1)
			convey.So(f.Match(late), convey.ShouldBeFalse)

			early := r
			early.MeasuredAt = day(2024, 3, 31)
			convey.So(f.Match(early), convey.ShouldBeFalse)

			other := r
			other.StoreID = "s2"
			convey.So(f.Match(other), convey.ShouldBeFalse)
		})

		convey.Convey("Then an empty filter should match everything", func() {
			convey.So(model.Filter{}.Match(model.Record{}), convey.ShouldBeTrue)
			convey.So(model.Filter{}.Until().IsZero(), convey.ShouldBeTrue)
		})
	})
}

func TestRecordValidate(t *testing.T) {
	convey.Convey("Given raw records", t, func() {
		valid := model.Record{Grade: types.Grade2, Gender: types.Male, Dash: ptr(3.4), DashDist: 15}

		convey.Convey("Then a well-formed record should pass", func() {
			convey.So(valid.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then bad categorical fields should be rejected", func() {
			r := valid
			r.Gender = "x"
			convey.So(errors.Is(r.Validate(), model.ErrInvalidRecord), convey.ShouldBeTrue)

			r = valid
			r.DashDist = 30
			convey.So(errors.Is(r.Validate(), model.ErrInvalidRecord), convey.ShouldBeTrue)
		})

		convey.Convey("Then negative values should be rejected", func() {
			r := valid
			r.Jump = ptr(-1)
			err := r.Validate()
			convey.So(errors.Is(err, model.ErrInvalidRecord), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "jump")
		})
	})
}
