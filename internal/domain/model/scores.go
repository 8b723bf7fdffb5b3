package model

import (
	"math"
	"strconv"

	"github.com/okian/competency/internal/domain/competency"
)

// RawScores maps a competency key, possibly a legacy one, to the percentage
// computed at submission time. It is persisted as computed and never rewritten.
type RawScores map[string]float64

// Scores maps each current competency key to a percentage in [0,100]. It is
// derived on read and never stored.
type Scores map[competency.Key]float64

// Raw converts current-model scores back into the persisted shape.
func (s Scores) Raw() RawScores {
	raw := make(RawScores, len(s))
	for k, v := range s {
		raw[string(k)] = v
	}
	return raw
}

// Round1 rounds to one decimal place. Exact ties go to the even digit, so
// 31.25 becomes 31.2 and 31.35 becomes 31.4.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}
