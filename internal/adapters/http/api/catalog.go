package api

import (
	"net/http"

	"github.com/okian/competency/internal/domain/competency"
)

// CatalogDependencies exposes the competency catalog.
type CatalogDependencies interface {
	Catalog() *competency.Catalog
}

// CatalogHandler serves the competency catalog.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type catalogResponse struct {
	Competencies []competency.Competency           `json:"competencies"`
	Aliases      map[competency.Key]competency.Key `json:"aliases"`
}

// HandleCompetencies handles GET /competencies.
func (h *CatalogHandler) HandleCompetencies(w http.ResponseWriter, _ *http.Request) {
	c := h.deps.Catalog()
	writeJSON(w, http.StatusOK, catalogResponse{
		Competencies: c.Competencies(),
		Aliases:      c.Aliases(),
	})
}
