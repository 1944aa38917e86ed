package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/agegrade/internal/adapters/http/api"
	"github.com/okian/agegrade/internal/adapters/http/swagger"
	app "github.com/okian/agegrade/internal/app"
	"github.com/okian/agegrade/internal/config"
	"github.com/okian/agegrade/internal/domain/types"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given the application wired from configuration", t, func() {
		_ = os.Setenv("AGEGRADE_ADDR", ":8080")
		_ = os.Setenv("AGEGRADE_LOCALE", "en")
		defer func() {
			_ = os.Unsetenv("AGEGRADE_ADDR")
			_ = os.Unsetenv("AGEGRADE_LOCALE")
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

		svc, _, err := app.NewFromConfig(cfg, app.WithWarmup(true))
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		swagger.Register(ctx, mux)
		api.NewServer(svc, svc).Register(ctx, mux)
		srv := httptest.NewServer(api.RequestIDMiddleware(mux))
		defer srv.Close()

		convey.Convey("When grading against the embedded dataset", func() {
			resp, err := http.Get(srv.URL + "/grade?sex=m&age=30&event=5+km&time=12:49&targets=peak")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			var res types.Result
			convey.So(json.NewDecoder(resp.Body).Decode(&res), convey.ShouldBeNil)

			convey.Convey("Then the full pipeline should answer", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(resp.Header.Get(api.RequestIDHeader), convey.ShouldNotBeEmpty)
				convey.So(res.State, convey.ShouldEqual, types.StateOK)
				convey.So(res.PercentText, convey.ShouldEqual, "100.00%")
				convey.So(len(res.Projections), convey.ShouldEqual, 1)
				convey.So(res.Projections[0].Found, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When fetching the API docs", func() {
			resp, err := http.Get(srv.URL + "/openapi.yaml")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then they should be served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When reading stats after warmup", func() {
			stats := svc.GetStats()

			convey.Convey("Then every table should be cached", func() {
				convey.So(stats["started"], convey.ShouldEqual, true)
				convey.So(stats["cache"], convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given an invalid configuration", t, func() {
		_ = os.Setenv("AGEGRADE_DATA_SOURCE", "dir")
		defer func() { _ = os.Unsetenv("AGEGRADE_DATA_SOURCE") }()

		convey.Convey("Then configuration loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When the system metrics updater's context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.Convey("Then it should return", func() {
				done := make(chan struct{})
				go func() {
					startSystemMetricsUpdater(ctx)
					close(done)
				}()
				select {
				case <-done:
				case <-time.After(2 * time.Second):
					t.Fatal("metrics updater did not stop")
				}
			})
		})

		convey.Convey("When updating system metrics", func() {
			convey.Convey("Then it should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})
	})
}
