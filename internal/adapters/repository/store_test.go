package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/scoreboard/internal/adapters/repository"
	"github.com/okian/scoreboard/internal/adapters/storage"
	"github.com/okian/scoreboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// failingStore returns err from every operation.
type failingStore struct {
	err error
}

func (f *failingStore) Backend() string { return "failing" }
func (f *failingStore) Insert(context.Context, model.ScoreRecord) error {
	return f.err
}
func (f *failingStore) Top(context.Context, int) ([]model.ScoreRecord, error) {
	return nil, f.err
}
func (f *failingStore) Count(context.Context) (int, error) { return 0, f.err }
func (f *failingStore) Ready() bool                        { return false }
func (f *failingStore) Close(context.Context) error        { return nil }

// nilStore returns a nil slice for an empty leaderboard.
type nilStore struct {
	repository.MemoryStore
}

func (n *nilStore) Top(context.Context, int) ([]model.ScoreRecord, error) { return nil, nil }

func TestRepository_Append(t *testing.T) {
	Convey("Given a repository over a memory store with a fixed clock", t, func() {
		now := time.Date(2026, 10, 18, 12, 0, 0, 123_456_789, time.UTC)
		repo := repository.New(repository.NewMemoryStore(), repository.WithClock(func() time.Time { return now }))
		ctx := context.Background()

		Convey("When appending a score", func() {
			rec, err := repo.Append(ctx, "Rex", 777)

			Convey("Then the persisted record carries the server timestamp", func() {
				So(err, ShouldBeNil)
				So(rec.Name, ShouldEqual, "Rex")
				So(rec.Score, ShouldEqual, 777.0)
				So(rec.Timestamp.Equal(now.Truncate(time.Millisecond)), ShouldBeTrue)
			})

			Convey("And it is returned by ListTop", func() {
				top, err := repo.ListTop(ctx, repository.TopLimit)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 1)
				So(top[0], ShouldResemble, rec)
			})
		})

		Convey("When appending the same name twice", func() {
			_, err1 := repo.Append(ctx, "Ace", 10)
			_, err2 := repo.Append(ctx, "Ace", 20)

			Convey("Then both records are kept", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				n, err := repo.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
			})
		})
	})
}

func TestRepository_ListTop(t *testing.T) {
	Convey("Given a repository over a memory store", t, func() {
		repo := repository.New(repository.NewMemoryStore())
		ctx := context.Background()

		Convey("When the store is empty", func() {
			top, err := repo.ListTop(ctx, repository.TopLimit)

			Convey("Then an empty, non-nil slice is returned", func() {
				So(err, ShouldBeNil)
				So(top, ShouldNotBeNil)
				So(top, ShouldBeEmpty)
			})
		})

		Convey("When scores are appended out of order", func() {
			for i, s := range []float64{5, 42, -3, 42, 0, 17.5} {
				_, err := repo.Append(ctx, fmt.Sprintf("p%d", i), s)
				So(err, ShouldBeNil)
			}
			top, err := repo.ListTop(ctx, repository.TopLimit)

			Convey("Then they come back ordered by score descending", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 6)
				for i := 1; i < len(top); i++ {
					So(top[i-1].Score, ShouldBeGreaterThanOrEqualTo, top[i].Score)
				}
				So(top[0].Score, ShouldEqual, 42.0)
				So(top[5].Score, ShouldEqual, -3.0)
			})
		})

		Convey("When more than the limit exist", func() {
			for i := 0; i < repository.TopLimit+25; i++ {
				_, err := repo.Append(ctx, "p", float64(i))
				So(err, ShouldBeNil)
			}
			top, err := repo.ListTop(ctx, repository.TopLimit)

			Convey("Then only the highest TopLimit scores are returned", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, repository.TopLimit)
				So(top[0].Score, ShouldEqual, float64(repository.TopLimit+24))
				So(top[len(top)-1].Score, ShouldEqual, 25.0)
			})
		})

		Convey("When asking for a non-positive limit", func() {
			_, err := repo.ListTop(ctx, 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store that returns a nil slice", t, func() {
		repo := repository.New(&nilStore{})

		Convey("Then ListTop still returns an empty slice", func() {
			top, err := repo.ListTop(context.Background(), 10)
			So(err, ShouldBeNil)
			So(top, ShouldNotBeNil)
			So(top, ShouldBeEmpty)
		})
	})
}

func TestRepository_Errors(t *testing.T) {
	Convey("Given a store rejecting writes", t, func() {
		rejected := errors.New("write rejected")
		repo := repository.New(&failingStore{err: rejected})
		ctx := context.Background()

		Convey("When appending", func() {
			_, err := repo.Append(ctx, "Zed", 1)

			Convey("Then the error is a storage error that keeps its cause", func() {
				So(errors.Is(err, repository.ErrStorage), ShouldBeTrue)
				So(errors.Is(err, rejected), ShouldBeTrue)
			})
		})

		Convey("When reading", func() {
			_, err := repo.ListTop(ctx, 5)

			Convey("Then the error is a storage error", func() {
				So(errors.Is(err, repository.ErrStorage), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store that cannot connect", t, func() {
		unreachable := fmt.Errorf("%w: dial tcp: refused", storage.ErrConnectivity)
		repo := repository.New(&failingStore{err: unreachable})

		Convey("When reading", func() {
			_, err := repo.ListTop(context.Background(), 5)

			Convey("Then the connectivity error passes through unchanged", func() {
				So(err, ShouldEqual, unreachable)
				So(errors.Is(err, repository.ErrStorage), ShouldBeFalse)
			})
		})
	})

	Convey("Given a closed memory store", t, func() {
		store := repository.NewMemoryStore()
		So(store.Close(context.Background()), ShouldBeNil)
		repo := repository.New(store)

		Convey("Then operations report the store as closed", func() {
			_, err := repo.Append(context.Background(), "x", 1)
			So(errors.Is(err, storage.ErrClosed), ShouldBeTrue)
			So(repo.Ready(), ShouldBeFalse)
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given connection strings for each backend", t, func() {
		Convey("Then Open picks the matching store without connecting", func() {
			mongoStore, err := repository.Open("mongodb://127.0.0.1:1/portfolio")
			So(err, ShouldBeNil)
			So(mongoStore.Backend(), ShouldEqual, "mongodb")
			So(mongoStore.Ready(), ShouldBeFalse)

			pgStore, err := repository.Open("postgres://127.0.0.1:1/scores?sslmode=disable")
			So(err, ShouldBeNil)
			So(pgStore.Backend(), ShouldEqual, "postgres")
			So(pgStore.Ready(), ShouldBeFalse)

			memStore, err := repository.Open("memory://")
			So(err, ShouldBeNil)
			So(memStore.Backend(), ShouldEqual, "memory")
		})

		Convey("And an unsupported scheme is an error", func() {
			_, err := repository.Open("redis://localhost")
			So(errors.Is(err, storage.ErrUnsupportedScheme), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable postgres server", t, func() {
		store, err := repository.Open("postgres://127.0.0.1:1/scores?sslmode=disable&connect_timeout=1",
			repository.WithDialTimeout(2*time.Second))
		So(err, ShouldBeNil)
		repo := repository.New(store)

		Convey("When reading the leaderboard", func() {
			_, err := repo.ListTop(context.Background(), repository.TopLimit)

			Convey("Then a connectivity error is returned", func() {
				So(errors.Is(err, storage.ErrConnectivity), ShouldBeTrue)
				So(repo.Ready(), ShouldBeFalse)
			})
		})
	})
}
