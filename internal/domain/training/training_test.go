package training_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/training"
	"github.com/okian/fitscore/internal/domain/types"
)

func TestDefault(t *testing.T) {
	Convey("Given the built-in catalog", t, func() {
		ts := training.Default()

		Convey("Then every ability should have at least two items per age group", func() {
			counts := map[string]int{}
			for _, tr := range ts {
				counts[tr.AbilityKey.String()+"/"+tr.AgeGroup]++
			}
			for _, m := range types.Metrics {
				So(counts[m.String()+"/"+model.AgeYoung], ShouldBeGreaterThanOrEqualTo, 2)
				So(counts[m.String()+"/"+model.AgeOld], ShouldBeGreaterThanOrEqualTo, 2)
			}
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given YAML catalogs", t, func() {
		Convey("When the catalog is valid", func() {
			ts, err := training.Load(strings.NewReader(`
trainings:
  - {ability_key: dash, age_group: old, name: Flying sprints, sort_order: 2}
`))
			So(err, ShouldBeNil)
			So(len(ts), ShouldEqual, 1)
			So(ts[0].AbilityKey, ShouldEqual, types.Dash)
			So(ts[0].SortOrder, ShouldEqual, 2)
		})

		Convey("When an ability is unknown", func() {
			_, err := training.Load(strings.NewReader(`trainings: [{ability_key: swim, age_group: old, name: x}]`))
			So(errors.Is(err, training.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When an age group is unknown", func() {
			_, err := training.Load(strings.NewReader(`trainings: [{ability_key: grip, age_group: teen, name: x}]`))
			So(errors.Is(err, training.ErrInvalidCatalog), ShouldBeTrue)
		})
	})
}
