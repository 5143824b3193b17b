package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/gandula/internal/app"
	"github.com/okian/gandula/internal/domain/model"
	"github.com/okian/gandula/internal/fixtures"
	"github.com/smartystreets/goconvey/convey"
)

func waitForOutcome(ctx context.Context, svc *service.Service, jobID string) (model.Conversion, bool) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		c, err := svc.Conversion(ctx, jobID)
		if err == nil && c.Status != model.ConversionPending {
			return c, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return model.Conversion{}, false
}

func TestServiceSubmit(t *testing.T) {
	convey.Convey("Given a running conversion service", t, func() {
		ctx := context.Background()
		match, err := fixtures.Generate()
		convey.So(err, convey.ShouldBeNil)

		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(8))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When a valid match is submitted", func() {
			jobID, err := svc.Submit(ctx, match.EventData, match.MetaData, match.RosterData, "metric")

			convey.So(err, convey.ShouldBeNil)
			convey.So(jobID, convey.ShouldNotBeEmpty)

			convey.Convey("Then the conversion eventually completes with a dataset", func() {
				c, done := waitForOutcome(ctx, svc, jobID)
				convey.So(done, convey.ShouldBeTrue)
				convey.So(c.Status, convey.ShouldEqual, model.ConversionDone)
				convey.So(c.Dataset, convey.ShouldNotBeNil)
				convey.So(c.Dataset.Metadata.GameID, convey.ShouldEqual, match.GameID)
				convey.So(c.Dataset.Metadata.CoordinateSystem, convey.ShouldEqual, "metric")
			})
		})

		convey.Convey("When a defective document is submitted", func() {
			jobID, err := svc.Submit(ctx, []byte(`{"not": "an array"}`), match.MetaData, match.RosterData, "")

			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the failure is stored as an outcome, not lost", func() {
				c, done := waitForOutcome(ctx, svc, jobID)
				convey.So(done, convey.ShouldBeTrue)
				convey.So(c.Status, convey.ShouldEqual, model.ConversionFailed)
				convey.So(c.Err, convey.ShouldNotBeEmpty)
				convey.So(c.Dataset, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a document is missing", func() {
			_, err := svc.Submit(ctx, nil, match.MetaData, match.RosterData, "")

			convey.Convey("Then the submission is rejected up front", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the coordinate system is unknown", func() {
			_, err := svc.Submit(ctx, match.EventData, match.MetaData, match.RosterData, "imperial")

			convey.Convey("Then the submission is rejected up front", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When an unknown job id is queried", func() {
			_, err := svc.Conversion(ctx, "no-such-job")

			convey.Convey("Then the lookup fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When stats are requested", func() {
			stats := svc.Stats()

			convey.Convey("Then the running configuration is reported", func() {
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["workerCount"], convey.ShouldEqual, 2)
				convey.So(stats, convey.ShouldContainKey, "queueLength")
				convey.So(stats, convey.ShouldContainKey, "storedConversions")
			})
		})
	})
}

func TestServiceBackpressure(t *testing.T) {
	convey.Convey("Given a service with no workers draining the queue", t, func() {
		ctx := context.Background()
		match, err := fixtures.Generate()
		convey.So(err, convey.ShouldBeNil)

		// One worker and a single-slot queue: submissions are much cheaper
		// than conversions, so a tight loop overflows the queue.
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(1))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When submissions outpace the queue", func() {
			var sawBackpressure bool
			for i := 0; i < 200 && !sawBackpressure; i++ {
				_, err := svc.Submit(ctx, match.EventData, match.MetaData, match.RosterData, "")
				if errors.Is(err, service.ErrBackpressure) {
					sawBackpressure = true
				} else {
					convey.So(err, convey.ShouldBeNil)
				}
			}

			convey.Convey("Then the queue eventually pushes back", func() {
				convey.So(sawBackpressure, convey.ShouldBeTrue)
			})
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1))

		convey.Convey("When Start is called twice", func() {
			convey.So(svc.Start(ctx), convey.ShouldBeNil)

			convey.Convey("Then the second call is a no-op", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				svc.Stop()
			})
		})

		convey.Convey("When Stop is called without Start", func() {
			convey.Convey("Then nothing happens", func() {
				svc.Stop()
				convey.So(svc.Stats()["started"], convey.ShouldBeFalse)
			})
		})
	})
}
