package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "agegrade")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.queries.WithLabelValues("ok").Inc()

			Convey("Then metric names and labels should reflect the options", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_queries_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with empty values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "agegrade")
				So(manager.subsystem, ShouldEqual, "service")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording query metrics", func() {
			before := testutil.ToFloat64(globalManager.queries.WithLabelValues("no_standard"))
			RecordQuery("no_standard")
			RecordComputeLatency(1.5)

			Convey("Then the state counter should increase", func() {
				So(testutil.ToFloat64(globalManager.queries.WithLabelValues("no_standard")), ShouldEqual, before+1)
			})
		})

		Convey("When recording cache metrics", func() {
			hits := testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues("table", "hit"))
			misses := testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues("table", "miss"))
			RecordCacheHit("table")
			RecordCacheMiss("table")
			RecordCoalescedLoad()
			RecordStandardsLoad("table", "ok")
			RecordStandardsLoadLatency("table", 3)
			UpdateCachedTables(4)
			UpdateCachedEditions(2)

			Convey("Then counters and gauges should reflect the calls", func() {
				So(testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues("table", "hit")), ShouldEqual, hits+1)
				So(testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues("table", "miss")), ShouldEqual, misses+1)
				So(testutil.ToFloat64(globalManager.cachedTables), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.cachedEditions), ShouldEqual, 2)
			})
		})

		Convey("When recording remaining metrics", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordDebounceSubmitted()
					RecordDebounceSuperseded()
					RecordDebounceDelivered()
					RecordHTTPRequest("grade", "GET", "200")
					RecordHTTPRequestDuration("grade", "GET", "200", 2)
					RecordErrorByComponent("repository", "load")
					RecordErrorByType("client_error", "medium")
					RecordErrorByEndpoint("grade", "POST", "client_error")
					RecordErrorLatency("http", "client_error", 1)
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(8)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the custom registry", func() {
			_, err := GetRegistry().Gather()

			Convey("Then it should succeed", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent metric updates", t, func() {
		done := make(chan struct{})
		for i := 0; i < 10; i++ {
			go func() {
				defer func() { done <- struct{}{} }()
				for j := 0; j < 100; j++ {
					RecordQuery("ok")
					RecordCacheHit("manifest")
				}
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		Convey("Then it should handle concurrent access without panics", func() {
			So(testutil.ToFloat64(globalManager.queries.WithLabelValues("ok")), ShouldBeGreaterThanOrEqualTo, 1000)
		})
	})
}
