package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/gandula/internal/adapters/mq/queue"
	"github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	convey.Convey("Given a bounded in-memory queue", t, func() {
		ctx := context.Background()

		convey.Convey("When jobs are enqueued within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			defer q.Close()

			ok1 := q.Enqueue(ctx, queue.Job{ID: "a"})
			ok2 := q.Enqueue(ctx, queue.Job{ID: "b"})

			convey.Convey("Then both are accepted", func() {
				convey.So(ok1, convey.ShouldBeTrue)
				convey.So(ok2, convey.ShouldBeTrue)
				convey.So(q.Len(ctx), convey.ShouldEqual, 2)
			})

			convey.Convey("Then a third is rejected without blocking", func() {
				convey.So(q.Enqueue(ctx, queue.Job{ID: "c"}), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When jobs are dequeued", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			q.Enqueue(ctx, queue.Job{ID: "a"})
			q.Enqueue(ctx, queue.Job{ID: "b"})

			out := q.Dequeue(ctx)

			convey.Convey("Then they come out in submission order", func() {
				first := <-out
				second := <-out
				convey.So(first.ID, convey.ShouldEqual, "a")
				convey.So(second.ID, convey.ShouldEqual, "b")
				q.Close()
			})

			convey.Convey("Then closing the queue closes the channel after draining", func() {
				q.Close()
				var got []string
				for j := range out {
					got = append(got, j.ID)
				}
				convey.So(got, convey.ShouldResemble, []string{"a", "b"})
			})
		})

		convey.Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			convey.So(q.IsClosed(), convey.ShouldBeFalse)
			convey.So(q.Close(), convey.ShouldBeNil)

			convey.Convey("Then further enqueues are rejected", func() {
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				convey.So(q.Enqueue(ctx, queue.Job{ID: "x"}), convey.ShouldBeFalse)
			})

			convey.Convey("Then closing again is harmless", func() {
				convey.So(q.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the dequeue context is canceled", func() {
			q := queue.NewInMemoryQueue()
			defer q.Close()

			dctx, cancel := context.WithCancel(ctx)
			out := q.Dequeue(dctx)
			q.Enqueue(ctx, queue.Job{ID: "a"})
			<-out
			cancel()

			convey.Convey("Then the consumer channel closes", func() {
				q.Enqueue(ctx, queue.Job{ID: "b"})
				// Give the consumer goroutine a moment to observe the
				// cancellation before we read.
				time.Sleep(50 * time.Millisecond)
				_, open := <-out
				convey.So(open, convey.ShouldBeFalse)
			})
		})
	})
}
