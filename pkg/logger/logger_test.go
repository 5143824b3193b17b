package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/gandula/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	convey.Convey("Given the global logger", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		convey.Convey("When it is retrieved", func() {
			l := logger.Get()

			convey.Convey("Then it accepts all levels and field kinds", func() {
				ctx := context.Background()
				l.Debug(ctx, "debug line", logger.String("k", "v"))
				l.Info(ctx, "info line", logger.Int("n", 1), logger.Bool("b", true))
				l.Warn(ctx, "warn line", logger.Float64("f", 1.5))
				l.Error(ctx, "error line", logger.Error(errors.New("boom")))
				convey.So(logger.Sync(), convey.ShouldBeNil)
			})

			convey.Convey("Then named loggers derive from it", func() {
				named := logger.Named("pipeline")
				convey.So(named, convey.ShouldNotBeNil)
				named.Info(context.Background(), "named line")
			})
		})

		convey.Convey("When the level is set from a string", func() {
			convey.Convey("Then known names parse", func() {
				for _, lvl := range []string{"debug", "info", "WARN", "warning", "error", ""} {
					convey.So(logger.SetLevelString(lvl), convey.ShouldBeNil)
				}
			})

			convey.Convey("Then unknown names are rejected", func() {
				convey.So(logger.SetLevelString("verbose"), convey.ShouldNotBeNil)
			})

			convey.So(logger.SetLevelString("info"), convey.ShouldBeNil)
		})
	})
}

func TestNoopLogger(t *testing.T) {
	convey.Convey("Given the noop logger", t, func() {
		l := logger.Noop()

		convey.Convey("When it is used", func() {
			ctx := context.Background()
			l.Info(ctx, "discarded")
			l.Debug(ctx, "discarded")
			l.Warn(ctx, "discarded")
			l.Error(ctx, "discarded")

			convey.Convey("Then naming it still discards", func() {
				convey.So(l.Named("sub"), convey.ShouldNotBeNil)
				l.Named("sub").Info(ctx, "discarded")
			})
		})
	})
}
