package model_test

import (
	"testing"

	model "github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestMeasurementBody(t *testing.T) {
	convey.Convey("Given a measurement with height and weight", t, func() {
		m := model.Measurement{Height: ptr(130), Weight: ptr(27.04)}

		convey.Convey("Then height and weight should be returned as stored", func() {
			h, ok := m.Body(types.Height)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(h, convey.ShouldEqual, 130.0)

			w, ok := m.Body(types.Weight)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(w, convey.ShouldEqual, 27.04)
		})

		convey.Convey("Then BMI should be derived from centimetres", func() {
			bmi, ok := m.Body(types.BMI)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(bmi, convey.ShouldAlmostEqual, 16.0, 1e-9)
		})
	})

	convey.Convey("Given a measurement without body data", t, func() {
		m := model.Measurement{Height: ptr(0), Weight: ptr(20)}

		convey.Convey("Then BMI should be absent for a zero height", func() {
			_, ok := m.Body(types.BMI)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("Then an unknown body metric should be absent", func() {
			_, ok := m.Body(types.BodyMetric("reach"))
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
