package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/competency/internal/adapters/repository"
	service "github.com/okian/competency/internal/app"
	"github.com/okian/competency/internal/config"
	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/pkg/logger"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvFile, "")
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then it exposes every subcommand", func() {
			names := make([]string, 0)
			for _, c := range root.Commands() {
				names = append(names, c.Name())
			}
			convey.So(names, convey.ShouldContain, "serve")
			convey.So(names, convey.ShouldContain, "seed")
			convey.So(names, convey.ShouldContain, "score")
			convey.So(names, convey.ShouldContain, "loadgen")
		})
	})
}

func TestConfigFlag(t *testing.T) {
	convey.Convey("Given a config file passed by flag", t, func() {
		t.Setenv(config.EnvFile, "")
		path := writeFile(t, "config.yaml", "addr: \":7070\"\nlog_format: json\nmax_option_score: 5\n")
		c := &cli{configPath: path}
		cmd := newSeedCmd(c)
		cmd.SetContext(context.Background())
		cmd.SetErr(io.Discard)

		err := c.init(cmd)

		convey.Convey("Then it is layered over the defaults", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.cfg.Addr, convey.ShouldEqual, ":7070")
			convey.So(c.cfg.LogFormat, convey.ShouldEqual, "json")
			convey.So(c.cfg.MaxOptionScore, convey.ShouldEqual, 5)
			convey.So(c.cfg.Storage, convey.ShouldEqual, config.StorageMemory)
		})
	})

	convey.Convey("Given an invalid config file", t, func() {
		path := writeFile(t, "config.yaml", "storage: redis\n")
		_, err := execute(t, "--config", path, "seed")
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestScoreCommand(t *testing.T) {
	convey.Convey("Given answers for the seeded teamwork questions", t, func() {
		t.Setenv("COMPETENCY_STORAGE", config.StorageMemory)

		var answers []map[string]int64
		want := 4
		for _, q := range repository.DefaultQuestions() {
			if q.Competency != competency.Teamwork {
				continue
			}
			for _, o := range q.Options {
				if o.Score == want {
					answers = append(answers, map[string]int64{"question_id": q.ID, "option_id": o.ID})
				}
			}
			want--
		}
		body, _ := json.Marshal(map[string]any{"answers": answers})
		path := writeFile(t, "answers.json", string(body))

		convey.Convey("When scoring them", func() {
			out, err := execute(t, "score", path)

			convey.Convey("Then the profile and recommendations are printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var eval service.Evaluation
				convey.So(json.Unmarshal([]byte(out), &eval), convey.ShouldBeNil)
				convey.So(eval.Raw["teamwork"], convey.ShouldEqual, 87.5)
				convey.So(eval.Scores[competency.Teamwork], convey.ShouldEqual, 87.5)
				convey.So(eval.Recommendations.StrongCompetencies, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When the file is missing", func() {
			_, err := execute(t, "score", filepath.Join(t.TempDir(), "nope.json"))
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When no file is given", func() {
			_, err := execute(t, "score")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestSeedCommand(t *testing.T) {
	convey.Convey("Given a memory store", t, func() {
		t.Setenv("COMPETENCY_STORAGE", config.StorageMemory)
		out, err := execute(t, "seed")
		convey.So(err, convey.ShouldBeNil)
		convey.So(out, convey.ShouldContainSubstring, "seeded")
	})

}

func TestSeedCommandSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "competencies.db")
	probe, err := repository.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Skipf("sqlite not available: %v", err)
	}
	_ = probe.Close()

	convey.Convey("Given a sqlite database file", t, func() {
		t.Setenv("COMPETENCY_STORAGE", config.StorageSQLite)
		t.Setenv("COMPETENCY_DATABASE_PATH", path)

		first, err := execute(t, "seed")
		convey.So(err, convey.ShouldBeNil)
		second, err := execute(t, "seed")
		convey.So(err, convey.ShouldBeNil)

		convey.So(first, convey.ShouldContainSubstring, "seeded")
		convey.So(second, convey.ShouldContainSubstring, "already has")
	})
}

func TestLoadCatalog(t *testing.T) {
	convey.Convey("Given configuration", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When no catalog file is set", func() {
			c, err := loadCatalog(cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.Len(), convey.ShouldEqual, competency.Default().Len())
		})

		convey.Convey("When the catalog file is missing", func() {
			cfg.CatalogFile = filepath.Join(t.TempDir(), "missing.yaml")
			_, err := loadCatalog(cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a wired service", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		svc, closeStore, err := newService(ctx, cfg, logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer closeStore()
		convey.So(svc.Start(ctx), convey.ShouldBeNil)

		mux := newMux(ctx, svc, cfg, logger.Nop())

		for _, path := range []string{"/healthz", "/competencies", "/questions", "/api-docs", "/openapi.yaml"} {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		}
	})
}
