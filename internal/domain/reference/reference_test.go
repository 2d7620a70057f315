package reference_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/okian/fitscore/internal/domain/reference"
	"github.com/okian/fitscore/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultTable(t *testing.T) {
	Convey("Given the built-in reference table", t, func() {
		table := reference.Default()

		Convey("Then every grade and gender should have a full baseline", func() {
			So(table.Len(), ShouldEqual, len(types.Grades)*len(types.Genders))
			for _, g := range types.Grades {
				for _, gen := range types.Genders {
					b, err := table.Baseline(g, gen)
					So(err, ShouldBeNil)
					So(b.Mean.Len(), ShouldEqual, types.NumMetrics)
				}
			}
		})

		Convey("Then the grade 4 male grip and dash baselines should match the published table", func() {
			b, err := table.Baseline(types.Grade4, types.Male)
			So(err, ShouldBeNil)
			grip, _ := b.Mean.Get(types.Grip)
			dash, _ := b.Mean.Get(types.Dash)
			So(grip, ShouldEqual, 17.5)
			So(dash, ShouldEqual, 3.3)
			So(table.StdDev(types.Grip), ShouldEqual, 3.5)
			So(table.StdDev(types.Dash), ShouldEqual, 0.26)
		})

		Convey("When looking up an unknown group", func() {
			_, err := table.Baseline(types.Grade("7"), types.Male)

			Convey("Then a missing-reference error should be returned", func() {
				So(errors.Is(err, reference.ErrMissingReference), ShouldBeTrue)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a YAML reference file", t, func() {
		doc := `
stddev: {grip: 3, jump: 10, dash: 0.2, doublejump: 5, squat: 4, sidestep: 5, throw: 4}
baselines:
  "3":
    female: {grip: 14, dash: 3.6}
`
		Convey("When loading it", func() {
			table, err := reference.Load(strings.NewReader(doc))

			Convey("Then the partial baseline should be available", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, 1)
				b, err := table.Baseline(types.Grade3, types.Female)
				So(err, ShouldBeNil)
				So(b.Mean.Has(types.Grip), ShouldBeTrue)
				So(b.Mean.Has(types.Jump), ShouldBeFalse)
				So(table.StdDev(types.Jump), ShouldEqual, 10.0)
			})
		})

		Convey("When a stddev is missing", func() {
			_, err := reference.Load(strings.NewReader(`stddev: {grip: 3}`))
			So(errors.Is(err, reference.ErrInvalidTable), ShouldBeTrue)
		})

		Convey("When a metric name is unknown", func() {
			_, err := reference.Load(strings.NewReader(`stddev: {swim: 3}`))
			So(errors.Is(err, reference.ErrInvalidTable), ShouldBeTrue)
		})
	})
}
