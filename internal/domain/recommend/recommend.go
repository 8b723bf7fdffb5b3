// Package recommend derives strengths, development areas, career paths and
// development resources from competency scores.
package recommend

import (
	"sort"

	"github.com/samber/lo"

	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/model"
	"github.com/okian/competency/internal/domain/normalize"
)

// Thresholds and caps applied by Generate.
const (
	StrengthThreshold      = 70.0
	DevelopmentThreshold   = 60.0
	ResourceThreshold      = 70.0
	TopN                   = 3
	MaxCareerPaths         = 8
	MaxResources           = 6
	ResourcesPerCompetency = 3
)

// Generator builds recommendation bundles. It is stateless after construction.
type Generator struct {
	catalog    *competency.Catalog
	normalizer *normalize.Normalizer
}

// New creates a Generator over the given catalog.
func New(catalog *competency.Catalog, opts ...Option) *Generator {
	g := &Generator{
		catalog:    catalog,
		normalizer: normalize.New(catalog),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type ranked struct {
	comp  competency.Competency
	score float64
}

// Generate normalizes raw and derives the recommendation bundle from it.
// Lists are never nil.
func (g *Generator) Generate(raw model.RawScores) model.Recommendations {
	return g.FromScores(g.normalizer.Normalize(raw))
}

// FromScores derives the bundle from already-normalized scores.
func (g *Generator) FromScores(scores model.Scores) model.Recommendations {
	rec := model.EmptyRecommendations()

	// catalog order first, so the stable sort keeps it for equal scores
	var list []ranked
	for _, comp := range g.catalog.Competencies() {
		if s := scores[comp.Key]; s > 0 {
			list = append(list, ranked{comp: comp, score: s})
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	top := list[:min(TopN, len(list))]
	for _, r := range top {
		if r.score >= StrengthThreshold {
			rec.StrongCompetencies = append(rec.StrongCompetencies, entry(r))
		}
		rec.CareerPaths = append(rec.CareerPaths, r.comp.CareerFields...)
	}
	rec.CareerPaths = capped(lo.Uniq(rec.CareerPaths), MaxCareerPaths)

	for _, r := range list {
		if r.score < DevelopmentThreshold {
			rec.DevelopmentAreas = append(rec.DevelopmentAreas, entry(r))
		}
		if r.score < ResourceThreshold {
			res := g.catalog.Resources(r.comp.Key)
			rec.Courses = append(rec.Courses, capped(res.Courses, ResourcesPerCompetency)...)
			rec.Activities = append(rec.Activities, capped(res.Activities, ResourcesPerCompetency)...)
		}
	}
	rec.Courses = capped(lo.Uniq(rec.Courses), MaxResources)
	rec.Activities = capped(lo.Uniq(rec.Activities), MaxResources)

	return rec
}

func entry(r ranked) model.CompetencyScore {
	return model.CompetencyScore{
		Name:        r.comp.Name,
		Score:       r.score,
		Description: r.comp.Description,
	}
}

func capped(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
