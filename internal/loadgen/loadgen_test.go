package loadgen_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/competency/internal/adapters/http/api"
	service "github.com/okian/competency/internal/app"
	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/loadgen"
	"github.com/okian/competency/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newServer(seed bool) *httptest.Server {
	svc := service.New(service.WithSeedQuestions(seed), service.WithLogger(logger.Nop()))
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, api.WithLogger(logger.Nop())).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestRun(t *testing.T) {
	Convey("Given a running service with seeded questions", t, func() {
		srv := newServer(true)
		defer srv.Close()

		Convey("When running a small load", func() {
			report, err := loadgen.Run(context.Background(), loadgen.Config{
				BaseURL: srv.URL,
				Users:   12,
				Workers: 4,
				Seed:    7,
			}, loadgen.WithLogger(logger.Nop()), loadgen.WithHTTPClient(srv.Client()))

			Convey("Then every submission is stored and aggregated", func() {
				So(err, ShouldBeNil)
				So(report.Questions, ShouldBeGreaterThan, 0)
				So(report.Submitted, ShouldEqual, 12)
				So(report.Stored, ShouldEqual, 12)
				So(report.Duplicate, ShouldEqual, 0)
				So(report.Failed, ShouldEqual, 0)
				So(report.Stats, ShouldContainKey, string(competency.Teamwork))
				So(report.Stats[string(competency.Teamwork)].Count, ShouldEqual, 12)
				So(report.Throughput(), ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a service without questions", t, func() {
		srv := newServer(false)
		defer srv.Close()

		_, err := loadgen.Run(context.Background(), loadgen.Config{BaseURL: srv.URL, Users: 1},
			loadgen.WithLogger(logger.Nop()))
		So(errors.Is(err, loadgen.ErrNoQuestions), ShouldBeTrue)
	})

	Convey("Given an unhealthy service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := loadgen.Run(context.Background(), loadgen.Config{BaseURL: srv.URL, Users: 1},
			loadgen.WithLogger(logger.Nop()))
		So(errors.Is(err, loadgen.ErrUnhealthy), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		srv := newServer(true)
		defer srv.Close()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := loadgen.Run(ctx, loadgen.Config{BaseURL: srv.URL, Users: 3},
			loadgen.WithLogger(logger.Nop()))
		So(err, ShouldNotBeNil)
	})
}

func TestReportThroughput(t *testing.T) {
	Convey("Given a report without a duration", t, func() {
		So(loadgen.Report{Submitted: 10}.Throughput(), ShouldEqual, 0)
	})
}
