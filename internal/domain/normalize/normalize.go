// Package normalize maps stored raw scores, possibly recorded under an older
// competency model, onto the current competency set.
package normalize

import (
	"math"
	"sort"

	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/model"
)

// Score bounds of a normalized value.
const (
	MinScore = 0
	MaxScore = 100
)

// Report is the outcome of NormalizeReport. Dropped lists, sorted, the raw
// keys that resolved to no current competency or carried a non-finite value.
// Clamped lists, sorted, the raw keys whose value lay outside [0,100] and was
// pulled to the nearest bound before averaging.
type Report struct {
	Scores  model.Scores
	Dropped []string
	Clamped []string
}

// Normalizer merges raw scores by canonical competency.
type Normalizer struct {
	catalog *competency.Catalog
}

// New creates a Normalizer over the given catalog.
func New(catalog *competency.Catalog) *Normalizer {
	return &Normalizer{catalog: catalog}
}

// Catalog returns the catalog the normalizer resolves against.
func (n *Normalizer) Catalog() *competency.Catalog { return n.catalog }

// Normalize returns one score per current competency: the mean of every raw
// value that resolves to it, rounded to one decimal, or 0 when none does.
func (n *Normalizer) Normalize(raw model.RawScores) model.Scores {
	return n.NormalizeReport(raw).Scores
}

// NormalizeReport is Normalize plus the raw keys it ignored or clamped.
func (n *Normalizer) NormalizeReport(raw model.RawScores) Report {
	size := n.catalog.Len()
	sums := make([]float64, size)
	counts := make([]int, size)
	var dropped, clamped []string

	for key, v := range raw {
		idx, ok := n.catalog.Index(n.catalog.ResolveKey(competency.Key(key)))
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			dropped = append(dropped, key)
			continue
		}
		if v < MinScore || v > MaxScore {
			clamped = append(clamped, key)
			v = math.Min(math.Max(v, MinScore), MaxScore)
		}
		sums[idx] += v
		counts[idx]++
	}
	sort.Strings(dropped)
	sort.Strings(clamped)

	scores := make(model.Scores, size)
	for i, key := range n.catalog.Keys() {
		if counts[i] == 0 {
			scores[key] = 0
			continue
		}
		scores[key] = model.Round1(sums[i] / float64(counts[i]))
	}
	return Report{Scores: scores, Dropped: dropped, Clamped: clamped}
}
