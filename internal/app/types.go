package service

import (
	"strings"
	"time"

	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/model"
	"github.com/okian/competency/internal/domain/scoring"
	"github.com/okian/competency/internal/domain/stats"
)

// Role is the coarse permission level of a viewer.
type Role string

// Roles.
const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole maps free text onto a Role. Unknown values become RoleStudent.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleTeacher:
		return RoleTeacher
	default:
		return RoleStudent
	}
}

// Viewer identifies who is asking.
type Viewer struct {
	UserID string
	Role   Role
}

// Privileged reports whether the viewer may see other users' data.
func (v Viewer) Privileged() bool {
	return v.Role == RoleTeacher || v.Role == RoleAdmin
}

func (v Viewer) canSee(ownerID string) error {
	if v.UserID == "" {
		return ErrUnauthenticated
	}
	if v.UserID != ownerID && !v.Privileged() {
		return ErrForbidden
	}
	return nil
}

// Submission is a completed questionnaire. ID is optional; when set, a
// repeated submission with the same ID is rejected.
type Submission struct {
	ID      string
	UserID  string
	Answers []model.Answer
}

// Evaluation is a scored but unsaved set of answers.
type Evaluation struct {
	Raw             model.RawScores       `json:"raw_scores"`
	Scores          model.Scores          `json:"scores"`
	Recommendations model.Recommendations `json:"recommendations"`
	Issues          []scoring.Issue       `json:"issues,omitempty"`
}

// SubmitOutcome is the stored result plus what scoring reported.
type SubmitOutcome struct {
	Result model.Result
	Scores model.Scores
	Issues []scoring.Issue
}

// QuestionView is a question labelled with its canonical competency.
type QuestionView struct {
	model.Question
	ResolvedCompetency competency.Key `json:"resolved_competency"`
	CompetencyName     string         `json:"competency_name"`
}

// Questionnaire is what a user needs to take the test.
type Questionnaire struct {
	Questions    []QuestionView                           `json:"questions"`
	Competencies map[competency.Key]competency.Competency `json:"competencies"`
}

// ResultView is a stored result with scores normalized on read.
type ResultView struct {
	model.Result
	Normalized model.Scores `json:"normalized_scores"`
}

// StatsView is the aggregate over every stored result.
type StatsView struct {
	Competencies map[competency.Key]stats.Summary `json:"competencies"`
	Records      int                              `json:"records"`
	Skipped      int                              `json:"skipped"`
	ComputedAt   time.Time                        `json:"computed_at"`
}

// Overview holds totals for the admin view.
type Overview struct {
	Results               int   `json:"results"`
	Questions             int   `json:"questions"`
	ActiveQuestions       int   `json:"active_questions"`
	RememberedSubmissions int64 `json:"remembered_submissions"`
}
