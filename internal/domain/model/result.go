package model

import "time"

// ProfileSnapshot is the profile data stored alongside a result.
type ProfileSnapshot struct {
	Scores    RawScores `json:"scores"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is one persisted questionnaire submission.
type Result struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	TakenAt         time.Time       `json:"taken_at"`
	Answers         []Answer        `json:"answers"`
	Scores          RawScores       `json:"scores"`
	Recommendations Recommendations `json:"recommendations"`
	Profile         ProfileSnapshot `json:"profile"`
}
