package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/scoreboard/internal/adapters/repository"
	"github.com/okian/scoreboard/internal/adapters/storage"
	service "github.com/okian/scoreboard/internal/app"
	"github.com/okian/scoreboard/internal/domain/model"
	"github.com/okian/scoreboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// blockingStore waits for the context on every read.
type blockingStore struct {
	repository.MemoryStore
}

func (b *blockingStore) Top(ctx context.Context, _ int) ([]model.ScoreRecord, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service over the memory backend", t, func() {
		svc := service.New(service.WithDatabaseURL("memory://"))
		ctx := context.Background()

		Convey("When it has not been started", func() {
			_, err := svc.ListTop(ctx)

			Convey("Then store operations report ErrNotStarted", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.Ready(), ShouldBeFalse)
				So(svc.GetStats(ctx)["started"], ShouldEqual, false)
			})
		})

		Convey("When it is started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop(ctx)

			Convey("Then starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stats describe the backend", func() {
				stats := svc.GetStats(ctx)
				So(stats["started"], ShouldEqual, true)
				So(stats["backend"], ShouldEqual, "memory")
				So(stats["totalScores"], ShouldEqual, 0)
				So(stats["topLimit"], ShouldEqual, repository.TopLimit)
			})
		})

		Convey("When it is stopped", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop(ctx)
			_, err := svc.Submit(ctx, "late", 1)

			Convey("Then further submissions are refused", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unsupported database url", t, func() {
		svc := service.New(service.WithDatabaseURL("redis://localhost"))

		Convey("Then Start fails", func() {
			err := svc.Start(context.Background())
			So(errors.Is(err, storage.ErrUnsupportedScheme), ShouldBeTrue)
		})
	})

	Convey("Given the default mongodb url and no server", t, func() {
		svc := service.New(service.WithDatabaseURL("mongodb://127.0.0.1:1/portfolio"))

		Convey("Then Start still succeeds because the connection is lazy", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Ready(), ShouldBeFalse)
			svc.Stop(context.Background())
		})
	})
}

func TestService_SubmitAndList(t *testing.T) {
	Convey("Given a started service with a fixed clock", t, func() {
		now := time.UnixMilli(1_760_000_000_000)
		svc := service.New(
			service.WithStore(repository.NewMemoryStore()),
			service.WithClock(func() time.Time { return now }),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When scores are submitted", func() {
			rec, err := svc.Submit(ctx, "Zed", 100)
			So(err, ShouldBeNil)
			_, err = svc.Submit(ctx, "Amy", 250)
			So(err, ShouldBeNil)

			Convey("Then the returned record is stamped by the clock", func() {
				So(rec.TimestampMillis(), ShouldEqual, now.UnixMilli())
			})

			Convey("And the leaderboard is ordered by score", func() {
				top, err := svc.ListTop(ctx)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
				So(top[0].Name, ShouldEqual, "Amy")
				So(top[1].Name, ShouldEqual, "Zed")
			})
		})
	})

	Convey("Given a store that hangs", t, func() {
		svc := service.New(
			service.WithStore(&blockingStore{}),
			service.WithStoreTimeout(20*time.Millisecond),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When listing the leaderboard", func() {
			_, err := svc.ListTop(ctx)

			Convey("Then the store timeout ends the call", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})
	})
}
