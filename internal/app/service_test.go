package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/competency/internal/adapters/repository"
	service "github.com/okian/competency/internal/app"
	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	student = service.Viewer{UserID: "u1", Role: service.RoleStudent}
	other   = service.Viewer{UserID: "u2", Role: service.RoleStudent}
	teacher = service.Viewer{UserID: "t1", Role: service.RoleTeacher}
	admin   = service.Viewer{UserID: "a1", Role: service.RoleAdmin}
)

func newSeeded(opts ...service.Option) (*service.Service, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	at := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	opts = append([]service.Option{
		service.WithStore(store),
		service.WithSeedQuestions(true),
		service.WithClock(func() time.Time { at = at.Add(time.Minute); return at }),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc, store
}

// teamworkAnswers picks the 4-point and 3-point options of the two seeded
// teamwork questions.
func teamworkAnswers() []model.Answer {
	var answers []model.Answer
	scores := []int{4, 3}
	for _, q := range repository.DefaultQuestions() {
		if q.Competency != competency.Teamwork {
			continue
		}
		want := scores[len(answers)]
		for _, o := range q.Options {
			if o.Score == want {
				answers = append(answers, model.Answer{QuestionID: q.ID, OptionID: o.ID})
			}
		}
	}
	return answers
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		So(svc.Started(), ShouldBeFalse)
		So(svc.Catalog().Len(), ShouldEqual, 5)

		Convey("When started twice and stopped", func() {
			ctx := context.Background()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Started(), ShouldBeTrue)
			svc.Stop()
			So(svc.Started(), ShouldBeFalse)
		})
	})
}

func TestQuestionnaire(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service without questions", t, func() {
		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then the questionnaire is empty", func() {
			_, err := svc.Questionnaire(ctx)
			So(errors.Is(err, service.ErrEmptyQuestionnaire), ShouldBeTrue)
		})

		Convey("And scoring still works with zero answers", func() {
			eval, err := svc.Evaluate(ctx, nil)
			So(err, ShouldBeNil)
			So(len(eval.Raw), ShouldEqual, 5)
			So(eval.Recommendations.StrongCompetencies, ShouldBeEmpty)
		})
	})

	Convey("Given a seeded service", t, func() {
		svc, _ := newSeeded()
		q, err := svc.Questionnaire(ctx)
		So(err, ShouldBeNil)

		Convey("Then legacy-tagged questions carry their canonical competency", func() {
			var legacy int
			for _, v := range q.Questions {
				if v.Competency == competency.Creativity {
					legacy++
					So(v.ResolvedCompetency, ShouldEqual, competency.CriticalThinking)
					So(v.CompetencyName, ShouldNotBeEmpty)
				}
			}
			So(legacy, ShouldEqual, 1)
			So(q.Competencies, ShouldContainKey, competency.Adaptability)
		})
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded service", t, func() {
		svc, store := newSeeded()

		Convey("When a student submits two teamwork answers", func() {
			out, err := svc.Submit(ctx, service.Submission{ID: "sub-1", UserID: "u1", Answers: teamworkAnswers()})

			Convey("Then the raw score is stored with its snapshot", func() {
				So(err, ShouldBeNil)
				So(out.Result.Scores["teamwork"], ShouldEqual, 87.5)
				So(out.Result.Profile.Scores, ShouldResemble, out.Result.Scores)
				So(out.Result.Profile.Timestamp, ShouldEqual, out.Result.TakenAt)
				So(out.Scores[competency.Teamwork], ShouldEqual, 87.5)
				So(out.Result.Recommendations.StrongCompetencies, ShouldHaveLength, 1)

				stored, err := store.Result(ctx, "sub-1")
				So(err, ShouldBeNil)
				So(stored.Scores, ShouldResemble, out.Result.Scores)
			})

			Convey("And resubmitting the same id is rejected", func() {
				_, err := svc.Submit(ctx, service.Submission{ID: "sub-1", UserID: "u1"})
				So(errors.Is(err, service.ErrDuplicateSubmission), ShouldBeTrue)
				n, _ := store.CountResults(ctx)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When answers reference unknown ids", func() {
			out, err := svc.Submit(ctx, service.Submission{UserID: "u1", Answers: []model.Answer{
				{QuestionID: 999, OptionID: 1},
				{QuestionID: 1, OptionID: 999},
			}})

			Convey("Then they are skipped and the rest is stored", func() {
				So(err, ShouldBeNil)
				So(out.Issues, ShouldHaveLength, 2)
				So(out.Result.ID, ShouldNotBeEmpty)
				So(len(out.Result.Scores), ShouldEqual, 5)
			})
		})

		Convey("When the user id is missing", func() {
			_, err := svc.Submit(ctx, service.Submission{Answers: teamworkAnswers()})
			So(errors.Is(err, service.ErrInvalidSubmission), ShouldBeTrue)
		})
	})
}

func TestResultAccess(t *testing.T) {
	ctx := context.Background()

	Convey("Given a stored result of u1", t, func() {
		svc, store := newSeeded()
		out, err := svc.Submit(ctx, service.Submission{UserID: "u1", Answers: teamworkAnswers()})
		So(err, ShouldBeNil)
		id := out.Result.ID

		Convey("Then the owner, a teacher and an admin can read it", func() {
			for _, v := range []service.Viewer{student, teacher, admin} {
				view, err := svc.Result(ctx, v, id)
				So(err, ShouldBeNil)
				So(view.Normalized[competency.Teamwork], ShouldEqual, 87.5)
			}
		})

		Convey("Then another student is forbidden", func() {
			_, err := svc.Result(ctx, other, id)
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
			_, err = svc.ResultsByUser(ctx, other, "u1")
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})

		Convey("Then an anonymous viewer is rejected", func() {
			_, err := svc.Result(ctx, service.Viewer{}, id)
			So(errors.Is(err, service.ErrUnauthenticated), ShouldBeTrue)
		})

		Convey("Then an unknown id is not found", func() {
			_, err := svc.Result(ctx, teacher, "missing")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a legacy record is stored", func() {
			legacy := model.Result{
				ID:      "legacy",
				UserID:  "u1",
				TakenAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				Scores:  model.RawScores{"creativity": 80, "problem_solving": 60, "leadership": 99},
			}
			So(store.SaveResult(ctx, legacy), ShouldBeNil)

			Convey("Then it is normalized on read and left untouched in storage", func() {
				view, err := svc.Result(ctx, student, "legacy")
				So(err, ShouldBeNil)
				So(view.Normalized[competency.CriticalThinking], ShouldEqual, 70.0)
				So(view.Normalized, ShouldNotContainKey, competency.Key("leadership"))

				stored, _ := store.Result(ctx, "legacy")
				So(stored.Scores, ShouldContainKey, "creativity")
			})

			Convey("Then history lists it after the newer result", func() {
				views, err := svc.ResultsByUser(ctx, student, "u1")
				So(err, ShouldBeNil)
				So(views, ShouldHaveLength, 2)
				So(views[0].ID, ShouldEqual, id)
				So(views[1].ID, ShouldEqual, "legacy")
			})

			Convey("Then recommendations can be rebuilt from its raw scores", func() {
				rec := svc.Recommend(legacy.Scores)
				So(rec.StrongCompetencies, ShouldHaveLength, 1)
				So(rec.StrongCompetencies[0].Score, ShouldEqual, 70.0)
			})
		})
	})
}

func TestStatsAndOverview(t *testing.T) {
	ctx := context.Background()

	Convey("Given two stored results and one corrupt row", t, func() {
		store := repository.NewMemoryStore()
		svc, _ := newSeeded(service.WithStore(store), service.WithResultStore(corruptTail{store}))
		_, err := svc.Submit(ctx, service.Submission{UserID: "u1", Answers: teamworkAnswers()})
		So(err, ShouldBeNil)
		_, err = svc.Submit(ctx, service.Submission{UserID: "u2", Answers: teamworkAnswers()[:1]})
		So(err, ShouldBeNil)

		Convey("When a teacher asks for statistics", func() {
			st, err := svc.Stats(ctx, teacher)

			Convey("Then the corrupt row is skipped", func() {
				So(err, ShouldBeNil)
				So(st.Skipped, ShouldEqual, 1)
				So(st.Records, ShouldEqual, 2)
				tw := st.Competencies[competency.Teamwork]
				So(tw.Count, ShouldEqual, 2)
				So(tw.Max, ShouldEqual, 100)
				So(tw.Min, ShouldEqual, 87.5)
			})
		})

		Convey("When a student asks for statistics", func() {
			_, err := svc.Stats(ctx, student)
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})

		Convey("When an admin asks for the overview", func() {
			ov, err := svc.Overview(ctx, admin)
			So(err, ShouldBeNil)
			So(ov.Results, ShouldEqual, 2)
			So(ov.Questions, ShouldEqual, len(repository.DefaultQuestions()))
			So(ov.ActiveQuestions, ShouldEqual, ov.Questions)
			So(ov.RememberedSubmissions, ShouldEqual, 2)
			So(svc.RememberedSubmissions(), ShouldEqual, 2)
		})

		Convey("When a teacher asks for the overview", func() {
			_, err := svc.Overview(ctx, teacher)
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})
	})
}

// corruptTail appends an undecodable row to the stored score blobs.
type corruptTail struct {
	*repository.MemoryStore
}

func (c corruptTail) RawScoreBlobs(ctx context.Context) ([][]byte, error) {
	blobs, err := c.MemoryStore.RawScoreBlobs(ctx)
	return append(blobs, []byte("not json")), err
}

func TestParseRole(t *testing.T) {
	Convey("ParseRole maps free text onto roles", t, func() {
		So(service.ParseRole(" Admin "), ShouldEqual, service.RoleAdmin)
		So(service.ParseRole("teacher"), ShouldEqual, service.RoleTeacher)
		So(service.ParseRole("whatever"), ShouldEqual, service.RoleStudent)
		So(teacher.Privileged(), ShouldBeTrue)
		So(student.Privileged(), ShouldBeFalse)
	})
}
