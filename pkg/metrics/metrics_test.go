package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 1}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors carry the options", func() {
				m.submissions.WithLabelValues(SubmissionStored).Inc()
				So(value(m.submissions.WithLabelValues(SubmissionStored)), ShouldEqual, 1)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_unit_submissions_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are given", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))
			So(m.namespace, ShouldEqual, "competency")
			So(m.subsystem, ShouldEqual, "assessment")
			So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When submissions are recorded", func() {
			before := value(globalManager.submissions.WithLabelValues(SubmissionDuplicate))
			RecordSubmission(SubmissionDuplicate)
			So(value(globalManager.submissions.WithLabelValues(SubmissionDuplicate)), ShouldEqual, before+1)
		})

		Convey("When counters receive non-positive amounts", func() {
			before := value(globalManager.corruptRecords)
			RecordCorruptRecords(0)
			RecordDroppedKeys(-1)
			So(value(globalManager.corruptRecords), ShouldEqual, before)
		})

		Convey("When gauges are updated", func() {
			UpdateStoredResults(7)
			UpdateActiveQuestions(13)
			So(value(globalManager.storedResults), ShouldEqual, 7)
			So(value(globalManager.activeQuestions), ShouldEqual, 13)
		})

		Convey("Then the remaining recorders do not panic", func() {
			So(func() {
				RecordScoringLatency(time.Millisecond)
				RecordSkippedAnswer("unknown_option")
				RecordResultRead()
				RecordStatsDuration(time.Millisecond)
				RecordStoreOperation("memory", "save_result", time.Millisecond)
				RecordHTTPRequest("/stats", http.MethodGet, http.StatusOK, time.Millisecond)
				RecordError("app", "store")
			}, ShouldNotPanic)
		})

		Convey("When the handler is scraped", func() {
			RecordResultRead()
			rec := httptest.NewRecorder()
			Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then it exposes the service metrics", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "competency_assessment_results_read_total")
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}

// value reads the current value of a single counter or gauge.
func value(c prometheus.Collector) float64 {
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	var pb dto.Metric
	if err := (<-ch).Write(&pb); err != nil {
		return -1
	}
	if pb.Counter != nil {
		return pb.Counter.GetValue()
	}
	return pb.Gauge.GetValue()
}
