// Package stats aggregates stored score mappings into per-competency
// summary statistics.
package stats

import (
	"math"
	"sort"

	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/model"
	"github.com/okian/competency/internal/domain/normalize"
)

// Summary describes the distribution of one competency across records.
// Std is the population standard deviation.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Calculator aggregates raw score mappings.
type Calculator struct {
	normalizer *normalize.Normalizer
}

// New creates a Calculator that normalizes every record with n first.
func New(n *normalize.Normalizer) *Calculator {
	return &Calculator{normalizer: n}
}

// Aggregate normalizes each mapping and summarizes the values per current
// competency. Competencies without contributing records are omitted.
func (c *Calculator) Aggregate(raws []model.RawScores) map[competency.Key]Summary {
	values := make(map[competency.Key][]float64)
	for _, raw := range raws {
		for key, v := range c.normalizer.Normalize(raw) {
			values[key] = append(values[key], v)
		}
	}

	out := make(map[competency.Key]Summary, len(values))
	for key, vs := range values {
		out[key] = summarize(vs)
	}
	return out
}

// AggregateEncoded decodes stored blobs and aggregates the ones that decode.
// It returns the number of blobs skipped as corrupt.
func (c *Calculator) AggregateEncoded(blobs [][]byte) (map[competency.Key]Summary, int) {
	raws := make([]model.RawScores, 0, len(blobs))
	skipped := 0
	for _, blob := range blobs {
		raw, err := model.DecodeRawScores(blob)
		if err != nil {
			skipped++
			continue
		}
		raws = append(raws, raw)
	}
	return c.Aggregate(raws), skipped
}

func summarize(vs []float64) Summary {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	n := len(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range sorted {
		sq += (v - mean) * (v - mean)
	}

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Summary{
		Mean:   model.Round1(mean),
		Median: model.Round1(median),
		Std:    model.Round1(math.Sqrt(sq / float64(n))),
		Min:    model.Round1(sorted[0]),
		Max:    model.Round1(sorted[n-1]),
		Count:  n,
	}
}
