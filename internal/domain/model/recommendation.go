package model

// CompetencyScore is one entry of a strengths or development-areas list.
type CompetencyScore struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

// Recommendations is the bundle derived from normalized scores.
type Recommendations struct {
	StrongCompetencies []CompetencyScore `json:"strong_competencies"`
	DevelopmentAreas   []CompetencyScore `json:"development_areas"`
	CareerPaths        []string          `json:"career_paths"`
	Courses            []string          `json:"courses"`
	Activities         []string          `json:"activities"`
}

// EmptyRecommendations returns a bundle whose lists are empty, not nil, so it
// encodes as arrays.
func EmptyRecommendations() Recommendations {
	return Recommendations{
		StrongCompetencies: []CompetencyScore{},
		DevelopmentAreas:   []CompetencyScore{},
		CareerPaths:        []string{},
		Courses:            []string{},
		Activities:         []string{},
	}
}

// normalized replaces nil lists with empty ones.
func (r Recommendations) normalized() Recommendations {
	if r.StrongCompetencies == nil {
		r.StrongCompetencies = []CompetencyScore{}
	}
	if r.DevelopmentAreas == nil {
		r.DevelopmentAreas = []CompetencyScore{}
	}
	if r.CareerPaths == nil {
		r.CareerPaths = []string{}
	}
	if r.Courses == nil {
		r.Courses = []string{}
	}
	if r.Activities == nil {
		r.Activities = []string{}
	}
	return r
}
