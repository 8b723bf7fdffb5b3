package model

import (
	"encoding/json"
	"fmt"
)

// EncodeRawScores renders raw scores as the stored JSON text.
func EncodeRawScores(raw RawScores) ([]byte, error) {
	if raw == nil {
		raw = RawScores{}
	}
	return json.Marshal(raw)
}

// DecodeRawScores parses a stored raw score blob.
func DecodeRawScores(data []byte) (RawScores, error) {
	var raw RawScores
	if err := decode(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null scores", ErrCorruptRecord)
	}
	return raw, nil
}

// EncodeRecommendations renders a recommendation bundle. Nil lists are
// written as empty arrays.
func EncodeRecommendations(r Recommendations) ([]byte, error) {
	return json.Marshal(r.normalized())
}

// DecodeRecommendations parses a stored recommendation bundle.
func DecodeRecommendations(data []byte) (Recommendations, error) {
	var r Recommendations
	if err := decode(data, &r); err != nil {
		return Recommendations{}, err
	}
	return r.normalized(), nil
}

// EncodeAnswers renders the submitted answers.
func EncodeAnswers(answers []Answer) ([]byte, error) {
	if answers == nil {
		answers = []Answer{}
	}
	return json.Marshal(answers)
}

// DecodeAnswers parses stored answers.
func DecodeAnswers(data []byte) ([]Answer, error) {
	var answers []Answer
	if err := decode(data, &answers); err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []Answer{}
	}
	return answers, nil
}

// EncodeProfile renders a profile snapshot.
func EncodeProfile(p ProfileSnapshot) ([]byte, error) {
	if p.Scores == nil {
		p.Scores = RawScores{}
	}
	return json.Marshal(p)
}

// DecodeProfile parses a stored profile snapshot.
func DecodeProfile(data []byte) (ProfileSnapshot, error) {
	var p ProfileSnapshot
	if err := decode(data, &p); err != nil {
		return ProfileSnapshot{}, err
	}
	if p.Scores == nil {
		p.Scores = RawScores{}
	}
	return p, nil
}

func decode(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty blob", ErrCorruptRecord)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return nil
}
