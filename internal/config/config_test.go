package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/fitscore/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DBDriver, convey.ShouldEqual, config.DriverSQLite)
			convey.So(cfg.CohortLimit, convey.ShouldEqual, 50)
			convey.So(cfg.ConnectTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single bad field", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":       func(c *config.Config) { c.Addr = "" },
			"unknown driver":   func(c *config.Config) { c.DBDriver = "mysql" },
			"empty dsn":        func(c *config.Config) { c.DBDSN = "" },
			"zero timeout":     func(c *config.Config) { c.DBConnectTimeoutMS = 0 },
			"unknown format":   func(c *config.Config) { c.LogFormat = "xml" },
			"zero cohort":      func(c *config.Config) { c.CohortLimit = 0 },
			"zero burst":       func(c *config.Config) { c.AnalyticsBurst = 0 },
			"zero shutdown ms": func(c *config.Config) { c.ShutdownTimeoutMS = 0 },
		}
		for _, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		}

		convey.Convey("Then a disabled limiter should not need a burst", func() {
			cfg := config.New()
			cfg.AnalyticsRPS = 0
			cfg.AnalyticsBurst = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
