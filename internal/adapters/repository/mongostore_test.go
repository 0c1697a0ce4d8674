package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/okian/scoreboard/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMongoStore(t *testing.T) {
	url := os.Getenv("LEADERBOARD_TEST_MONGODB_URI")
	if url == "" {
		t.Skip("LEADERBOARD_TEST_MONGODB_URI not set")
	}

	Convey("Given a repository over mongodb", t, func() {
		store, err := repository.Open(url)
		So(err, ShouldBeNil)
		repo := repository.New(store)
		ctx := context.Background()
		defer func() { _ = repo.Close(ctx) }()

		Convey("When appending a score", func() {
			rec, err := repo.Append(ctx, "mongo-check", float64(time.Now().UnixNano()))
			So(err, ShouldBeNil)

			Convey("Then it is the top entry with the same timestamp", func() {
				top, err := repo.ListTop(ctx, 1)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 1)
				So(top[0].Name, ShouldEqual, rec.Name)
				So(top[0].Timestamp.Equal(rec.Timestamp), ShouldBeTrue)
				So(repo.Ready(), ShouldBeTrue)
			})
		})
	})
}
