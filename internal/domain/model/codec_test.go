package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/competency/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRawScoresCodec(t *testing.T) {
	Convey("Given stored raw scores with legacy keys", t, func() {
		raw := model.RawScores{"creativity": 80, "problem_solving": 60, "teamwork": 87.5}

		Convey("When encoded and decoded", func() {
			blob, err := model.EncodeRawScores(raw)
			So(err, ShouldBeNil)
			got, err := model.DecodeRawScores(blob)

			Convey("Then every key survives unchanged", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, raw)
			})
		})

		Convey("When the blob is not JSON", func() {
			_, err := model.DecodeRawScores([]byte("{not json"))
			So(errors.Is(err, model.ErrCorruptRecord), ShouldBeTrue)
		})

		Convey("When the blob is empty or null", func() {
			_, err := model.DecodeRawScores(nil)
			So(errors.Is(err, model.ErrCorruptRecord), ShouldBeTrue)
			_, err = model.DecodeRawScores([]byte("null"))
			So(errors.Is(err, model.ErrCorruptRecord), ShouldBeTrue)
		})

		Convey("When values are not numbers", func() {
			_, err := model.DecodeRawScores([]byte(`{"teamwork":"high"}`))
			So(errors.Is(err, model.ErrCorruptRecord), ShouldBeTrue)
		})
	})
}

func TestRecommendationsCodec(t *testing.T) {
	Convey("Given a recommendation bundle with nil lists", t, func() {
		rec := model.Recommendations{
			StrongCompetencies: []model.CompetencyScore{{Name: "Teamwork", Score: 87.5, Description: "d"}},
		}

		Convey("When encoded", func() {
			blob, err := model.EncodeRecommendations(rec)
			So(err, ShouldBeNil)

			Convey("Then nil lists are written as arrays", func() {
				So(string(blob), ShouldContainSubstring, `"career_paths":[]`)
				So(string(blob), ShouldContainSubstring, `"strong_competencies":[{"name":"Teamwork","score":87.5,"description":"d"}]`)
			})

			Convey("Then decoding yields non-nil lists", func() {
				got, err := model.DecodeRecommendations(blob)
				So(err, ShouldBeNil)
				So(got.StrongCompetencies, ShouldResemble, rec.StrongCompetencies)
				So(got.Courses, ShouldNotBeNil)
				So(got.Activities, ShouldBeEmpty)
			})
		})
	})
}

func TestAnswersAndProfileCodec(t *testing.T) {
	Convey("Given answers and a profile snapshot", t, func() {
		answers := []model.Answer{{QuestionID: 1, OptionID: 3}, {QuestionID: 2, OptionID: 7}}
		ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
		profile := model.ProfileSnapshot{Scores: model.RawScores{"teamwork": 50}, Timestamp: ts}

		Convey("Then both round-trip", func() {
			blob, err := model.EncodeAnswers(answers)
			So(err, ShouldBeNil)
			gotAnswers, err := model.DecodeAnswers(blob)
			So(err, ShouldBeNil)
			So(gotAnswers, ShouldResemble, answers)

			blob, err = model.EncodeProfile(profile)
			So(err, ShouldBeNil)
			gotProfile, err := model.DecodeProfile(blob)
			So(err, ShouldBeNil)
			So(gotProfile.Scores, ShouldResemble, profile.Scores)
			So(gotProfile.Timestamp.Equal(ts), ShouldBeTrue)
		})

		Convey("Then nil answers encode as an empty array", func() {
			blob, err := model.EncodeAnswers(nil)
			So(err, ShouldBeNil)
			So(string(blob), ShouldEqual, "[]")
		})
	})
}

func TestQuestionSet(t *testing.T) {
	Convey("Given questions out of order", t, func() {
		qs := []model.Question{
			{ID: 2, OrderNum: 2, Options: []model.Option{{ID: 5, OrderNum: 2}, {ID: 4, OrderNum: 1}}},
			{ID: 1, OrderNum: 1},
		}

		Convey("When sorted", func() {
			model.SortQuestions(qs)
			So(qs[0].ID, ShouldEqual, 1)
			So(qs[1].Options[0].ID, ShouldEqual, 4)
		})

		Convey("When indexed", func() {
			set := model.NewQuestionSet(qs)
			So(set.Len(), ShouldEqual, 2)
			q, ok := set.Question(2)
			So(ok, ShouldBeTrue)
			_, ok = q.Option(5)
			So(ok, ShouldBeTrue)
			_, ok = q.Option(99)
			So(ok, ShouldBeFalse)
			_, ok = set.Question(99)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRound1(t *testing.T) {
	Convey("Round1 rounds to one decimal", t, func() {
		So(model.Round1(87.5), ShouldEqual, 87.5)
		So(model.Round1(66.66666), ShouldEqual, 66.7)
		So(model.Round1(0.04), ShouldEqual, 0.0)
	})

	Convey("Round1 sends exact ties to the even digit", t, func() {
		So(model.Round1(31.25), ShouldEqual, 31.2)
		So(model.Round1(72.25), ShouldEqual, 72.2)
		So(model.Round1(31.75), ShouldEqual, 31.8)
		So(model.Round1(-0.25), ShouldEqual, -0.2)
	})
}
