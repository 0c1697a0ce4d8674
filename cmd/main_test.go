package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/scoreboard/internal/config"
	"github.com/okian/scoreboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func clearEnv() {
	for _, kv := range os.Environ() {
		key := strings.SplitN(kv, "=", 2)[0]
		if strings.HasPrefix(key, config.EnvPrefix) || key == config.EnvMongoURI {
			_ = os.Unsetenv(key)
		}
	}
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given configuration selecting the memory backend", t, func() {
		clearEnv()
		_ = os.Setenv("LEADERBOARD_DATABASE_URL", "memory://")
		defer clearEnv()

		ctx := context.Background()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		svc := newService(cfg, logger.Discard())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop(ctx)

		mux := newMux(ctx, svc, logger.Discard())

		convey.Convey("When a score is posted and the leaderboard read", func() {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/leaderboard", strings.NewReader(`{"name":"Amy","score":250}`))
			mux.ServeHTTP(rr, req)
			convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)

			rr = httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))

			convey.Convey("Then the record is listed", func() {
				convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rr.Body.String(), convey.ShouldContainSubstring, `"name":"Amy"`)
			})
		})

		convey.Convey("When the docs routes are requested", func() {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

			convey.Convey("Then they are served", func() {
				convey.So(rr.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a free address and the memory backend", t, func() {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		addr := l.Addr().String()
		_ = l.Close()

		cfg := config.New()
		cfg.Addr = addr
		cfg.DatabaseURL = "memory://"

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg, logger.Discard()) }()

		convey.Convey("When the server is up", func() {
			var resp *http.Response
			for i := 0; i < 50; i++ {
				resp, err = http.Get("http://" + addr + "/healthz")
				if err == nil {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()

			convey.Convey("Then it answers and shuts down on cancel", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				cancel()
				convey.So(<-done, convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given an address that is already taken", t, func() {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		defer l.Close()

		cfg := config.New()
		cfg.Addr = l.Addr().String()
		cfg.DatabaseURL = "memory://"

		convey.Convey("Then run returns the listen error", func() {
			err := run(context.Background(), cfg, logger.Discard())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it returns once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateSystemMetrics()
				}, convey.ShouldNotPanic)
			})
		})
	})
}
