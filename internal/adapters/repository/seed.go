package repository

import (
	"context"
	"fmt"

	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/model"
)

type seedQuestion struct {
	text    string
	comp    competency.Key
	options [4]string // strongest answer first
}

// Options are scored 4 down to 1. Some questions still carry keys from the
// ten-competency model and are scored through the alias table.
var seedQuestions = []seedQuestion{
	{"When solving a hard problem, you first:", competency.CriticalThinking, [4]string{
		"Split it into sub-problems and analyse each", "Look for similar solutions in books or online",
		"Try options at random", "Ask colleagues for help"}},
	{"When you hear new information, you:", competency.CriticalThinking, [4]string{
		"Check the sources and verify the facts", "Compare it with what you already know",
		"Trust it if the source has authority", "Accept it without checking"}},
	{"When talking with a group of people, you:", competency.Communication, [4]string{
		"Easily find common ground with everyone", "Talk with the people who interest you",
		"Prefer one-on-one conversations", "Avoid group conversations"}},
	{"When you need to explain a complex topic:", competency.Communication, [4]string{
		"Adapt the explanation to the audience", "Use examples and analogies",
		"Show it in practice", "Explain it the way you know it"}},
	{"When you see a colleague is upset:", competency.EmotionalIntelligence, [4]string{
		"Approach and offer help", "Notice but do not intervene",
		"Do not pay attention", "Avoid talking to them"}},
	{"In a stressful situation, you:", competency.EmotionalIntelligence, [4]string{
		"Stay calm and keep emotions under control", "Try not to show anxiety",
		"Find it hard to control emotions", "Panic"}},
	{"Your approach to planning the day:", competency.TimeManagement, [4]string{
		"A detailed plan with priorities", "Plan the main tasks",
		"Keep tasks in your head", "Do not plan"}},
	{"When working with deadlines:", competency.TimeManagement, [4]string{
		"Always finish on time", "Usually finish on time",
		"Sometimes run late", "Often miss them"}},
	{"In team work, you:", competency.Teamwork, [4]string{
		"Take an active part and support the team", "Do your own part of the work",
		"Prefer to work alone", "Avoid team work"}},
	{"When the team has a conflict:", competency.Teamwork, [4]string{
		"Work to resolve it", "Help find a compromise",
		"Stay on the sidelines", "Make it worse"}},
	{"When looking for a solution, you:", competency.Creativity, [4]string{
		"Generate many unconventional ideas", "Look for unusual approaches",
		"Use proven methods", "Copy other people's solutions"}},
	{"When a solution does not work:", competency.ProblemSolving, [4]string{
		"Analyse the cause and try another approach", "Try alternative solutions",
		"Keep retrying", "Give up"}},
	{"When plans change suddenly:", competency.Adaptability, [4]string{
		"Adapt quickly and find new solutions", "Accept the change after a short pause",
		"Get upset but adapt", "Find it hard to accept"}},
}

// DefaultQuestions returns the built-in questionnaire. Question ids start at 1
// and option ids are questionID*10 + position.
func DefaultQuestions() []model.Question {
	out := make([]model.Question, len(seedQuestions))
	for i, sq := range seedQuestions {
		id := int64(i + 1)
		q := model.Question{
			ID:         id,
			Text:       sq.text,
			Competency: sq.comp,
			Active:     true,
			OrderNum:   i + 1,
			Options:    make([]model.Option, len(sq.options)),
		}
		for j, text := range sq.options {
			q.Options[j] = model.Option{
				ID:         id*10 + int64(j+1),
				QuestionID: id,
				Text:       text,
				Score:      len(sq.options) - j,
				OrderNum:   j + 1,
			}
		}
		out[i] = q
	}
	return out
}

// SeedIfEmpty writes DefaultQuestions when the store holds no questions. It
// reports whether anything was written.
func SeedIfEmpty(ctx context.Context, s QuestionStore) (bool, error) {
	n, err := s.CountQuestions(ctx)
	if err != nil {
		return false, fmt.Errorf("count questions: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := s.SaveQuestions(ctx, DefaultQuestions()); err != nil {
		return false, fmt.Errorf("seed questions: %w", err)
	}
	return true, nil
}
