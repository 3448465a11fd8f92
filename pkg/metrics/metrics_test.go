package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "careertrack")
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "sub")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.enabled, ShouldBeFalse)
				So(manager.refreshInterval, ShouldEqual, 5*time.Second)
			})
		})

		Convey("When creating with empty or invalid values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(-time.Second),
				WithCustomLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "careertrack")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When a task completion is recorded", func() {
			before := testutil.ToFloat64(globalManager.xpAwarded)
			completedBefore := testutil.ToFloat64(globalManager.tasksCompleted)
			RecordTaskCompleted(150)

			Convey("Then the task counter and XP counter move", func() {
				So(testutil.ToFloat64(globalManager.tasksCompleted), ShouldEqual, completedBefore+1)
				So(testutil.ToFloat64(globalManager.xpAwarded), ShouldEqual, before+150)
			})
		})

		Convey("When a reward unlock is recorded", func() {
			c := globalManager.rewardsUnlocked.WithLabelValues("Beginner Achiever")
			before := testutil.ToFloat64(c)
			RecordRewardUnlocked("Beginner Achiever")

			Convey("Then the badge counter moves", func() {
				So(testutil.ToFloat64(c), ShouldEqual, before+1)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordPlanCreated()
					RecordPlanDeleted()
					RecordPlanGenerated()
					RecordDuplicateCompletion()
					RecordCompletionLatency(3)
					RecordHTTPRequest("/plans/list", "GET", "200")
					RecordHTTPRequestDuration("/plans/list", "GET", "200", 4)
					RecordErrorByEndpoint("/plans/add", "POST", "client_error")
					RecordStoreQueryLatency("select", 1)
					RecordStoreError("complete_task")
					RecordLLMRequest(120, 300, 800)
					RecordLLMError("rate_limit")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
				}, ShouldNotPanic)
			})
		})

		Convey("Then the registry is gatherable", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
