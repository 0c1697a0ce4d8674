package storage

import (
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseBackend(t *testing.T) {
	Convey("Given connection strings for every supported backend", t, func() {
		cases := map[string]Backend{
			"mongodb://localhost:27017/portfolio":         BackendMongo,
			"mongodb+srv://user:pw@cluster.example.net/x": BackendMongo,
			"postgres://localhost/scores":                 BackendPostgres,
			"postgresql://localhost/scores":               BackendPostgres,
			"sqlite:///var/lib/scores.db":                 BackendSQLite,
			"file:scores.db?cache=shared":                 BackendSQLite,
			"memory://":                                   BackendMemory,
			"  MONGODB://localhost  ":                     BackendMongo,
		}

		Convey("Then each maps to its backend", func() {
			for url, want := range cases {
				got, err := ParseBackend(url)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})
	})

	Convey("Given unsupported connection strings", t, func() {
		Convey("Then an unknown scheme is rejected", func() {
			_, err := ParseBackend("redis://localhost:6379")
			So(errors.Is(err, ErrUnsupportedScheme), ShouldBeTrue)
		})

		Convey("And a string without a scheme is rejected without echoing it", func() {
			_, err := ParseBackend("supersecretpassword")
			So(errors.Is(err, ErrUnsupportedScheme), ShouldBeTrue)
			So(strings.Contains(err.Error(), "supersecretpassword"), ShouldBeFalse)
		})
	})
}

func TestSQLiteDSN(t *testing.T) {
	Convey("Given sqlite connection strings", t, func() {
		Convey("When the path is a file", func() {
			dsn := sqliteDSN("sqlite:///tmp/scores.db")

			Convey("Then busy timeout and WAL pragmas are added", func() {
				So(dsn, ShouldStartWith, "/tmp/scores.db?")
				So(dsn, ShouldContainSubstring, "busy_timeout")
				So(dsn, ShouldContainSubstring, "journal_mode")
			})
		})

		Convey("When the path is in memory", func() {
			dsn := sqliteDSN("sqlite://:memory:")

			Convey("Then WAL is not requested", func() {
				So(dsn, ShouldStartWith, ":memory:?")
				So(dsn, ShouldNotContainSubstring, "journal_mode")
			})
		})

		Convey("When a file: URI is given", func() {
			Convey("Then it is passed through", func() {
				So(sqliteDSN("file:x.db?mode=rwc"), ShouldEqual, "file:x.db?mode=rwc")
			})
		})
	})
}
