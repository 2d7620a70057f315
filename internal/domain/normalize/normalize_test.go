package normalize_test

import (
	"testing"
	"time"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/normalize"
	"github.com/okian/fitscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestSprintFrom50m(t *testing.T) {
	Convey("Given a 50m sprint time", t, func() {
		Convey("When converting for a grade 4 subject", func() {
			So(normalize.SprintFrom50m(types.Grade4, 9.3), ShouldAlmostEqual, 3.25, 1e-9)
		})

		Convey("Then younger grades should carry a larger acceleration penalty", func() {
			k5 := normalize.SprintFrom50m(types.GradeK5, 10)
			g6 := normalize.SprintFrom50m(types.Grade6, 10)
			So(k5, ShouldBeGreaterThan, g6)
		})

		Convey("Then the conversion should be monotonic in the raw time", func() {
			So(normalize.SprintFrom50m(types.Grade2, 11), ShouldBeGreaterThan, normalize.SprintFrom50m(types.Grade2, 10))
		})

		Convey("Then SprintTo50m should invert it", func() {
			So(normalize.SprintTo50m(types.Grade4, 3.25), ShouldAlmostEqual, 9.3, 1e-9)
		})
	})
}

func TestThrowCorrection(t *testing.T) {
	Convey("Given the ball correction tables", t, func() {
		Convey("Then the diameter factors should span 1.00 to 1.26 and increase with size", func() {
			So(len(normalize.DiameterFactors), ShouldEqual, 5)
			So(len(normalize.WeightFactors), ShouldEqual, 4)
			So(normalize.DiameterFactors[0].Factor, ShouldEqual, 1.00)
			So(normalize.DiameterFactors[4].Factor, ShouldEqual, 1.26)
			for i := 1; i < len(normalize.DiameterFactors); i++ {
				So(normalize.DiameterFactors[i].Factor, ShouldBeGreaterThan, normalize.DiameterFactors[i-1].Factor)
			}
		})

		Convey("When both corrections apply", func() {
			So(normalize.CorrectThrow(10, 16, 300), ShouldEqual, 14.5)
			So(normalize.CorrectThrow(10, 12, 150), ShouldEqual, 11.6)
		})

		Convey("When the ball is unknown", func() {
			So(normalize.DiameterFactor(9), ShouldEqual, 1.0)
			So(normalize.WeightFactor(0), ShouldEqual, 1.0)
			So(normalize.CorrectThrow(12.34, 0, 0), ShouldEqual, 12.3)
		})
	})
}

func TestCanonicalize(t *testing.T) {
	Convey("Given a raw record measured with a 50m sprint and a large ball", t, func() {
		at := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
		rec := model.Record{
			ID:           "r1",
			SubjectID:    "s1",
			StoreID:      "st1",
			Grade:        types.Grade4,
			Gender:       types.Male,
			GripRight:    ptr(22),
			GripLeft:     ptr(20),
			Dash:         ptr(9.3),
			DashDist:     50,
			Throw:        ptr(10),
			BallDiameter: 16,
			BallWeight:   300,
			Sidestep:     ptr(41),
			MeasuredAt:   at,
		}

		m := normalize.Canonicalize(rec)

		Convey("Then grip should be the mean of both hands", func() {
			v, ok := m.Values.Get(types.Grip)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 21.0)
		})

		Convey("Then dash should be converted to 15m", func() {
			v, _ := m.Values.Get(types.Dash)
			So(v, ShouldAlmostEqual, 3.25, 1e-9)
		})

		Convey("Then throw should be corrected", func() {
			v, _ := m.Values.Get(types.Throw)
			So(v, ShouldEqual, 14.5)
		})

		Convey("Then unmeasured metrics should stay absent and identity should carry over", func() {
			So(m.Values.Has(types.Jump), ShouldBeFalse)
			So(m.Values.Len(), ShouldEqual, 4)
			So(m.RecordID, ShouldEqual, "r1")
			So(m.SubjectID, ShouldEqual, "s1")
			So(m.MeasuredAt, ShouldEqual, at)
		})
	})

	Convey("Given a record with one grip hand and a 15m sprint", t, func() {
		rec := model.Record{Grade: types.Grade1, Gender: types.Female, GripLeft: ptr(9), Dash: ptr(4.1), DashDist: 15}
		m := normalize.Canonicalize(rec)

		grip, _ := m.Values.Get(types.Grip)
		dash, _ := m.Values.Get(types.Dash)
		So(grip, ShouldEqual, 9.0)
		So(dash, ShouldEqual, 4.1)
		So(len(normalize.CanonicalizeAll([]model.Record{rec, rec})), ShouldEqual, 2)
	})
}
