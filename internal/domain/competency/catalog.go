// Package competency holds the immutable competency registry: the current
// competency definitions, the alias table that maps historical keys onto
// current ones, and the per-competency development resources.
package competency

import (
	"fmt"
	"slices"
)

// Key identifies a competency. Keys in stored data may be legacy aliases.
type Key string

// Current competency keys, in catalog order.
const (
	CriticalThinking      Key = "critical_thinking"
	Communication         Key = "communication"
	EmotionalIntelligence Key = "emotional_intelligence"
	TimeManagement        Key = "time_management"
	Teamwork              Key = "teamwork"
)

// Legacy keys from the ten-competency model.
const (
	Creativity      Key = "creativity"
	ProblemSolving  Key = "problem_solving"
	DigitalLiteracy Key = "digital_literacy"
	SelfRegulation  Key = "self_regulation"
	Adaptability    Key = "adaptability"
)

// Competency is the display metadata of a single competency.
type Competency struct {
	Key          Key      `json:"key"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CareerFields []string `json:"career_fields"`
}

// Resources lists development material suggested for a competency.
type Resources struct {
	Courses    []string `json:"courses"`
	Activities []string `json:"activities"`
}

// Catalog is an immutable registry of competencies, aliases and resources.
// Build one with New, Default or LoadFile and share it freely.
type Catalog struct {
	competencies []Competency
	index        map[Key]int
	aliases      map[Key]Key
	resources    map[Key]Resources
}

// New validates the inputs and builds a Catalog. Competency order is kept as
// given and defines tie-break order everywhere scores are sorted.
func New(competencies []Competency, aliases map[Key]Key, resources map[Key]Resources) (*Catalog, error) {
	if len(competencies) == 0 {
		return nil, fmt.Errorf("%w: no competencies", ErrInvalidCatalog)
	}

	c := &Catalog{
		competencies: make([]Competency, 0, len(competencies)),
		index:        make(map[Key]int, len(competencies)),
		aliases:      make(map[Key]Key, len(aliases)),
		resources:    make(map[Key]Resources, len(resources)),
	}

	for _, comp := range competencies {
		if comp.Key == "" {
			return nil, fmt.Errorf("%w: empty competency key", ErrInvalidCatalog)
		}
		if _, dup := c.index[comp.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate competency %q", ErrInvalidCatalog, comp.Key)
		}
		comp.CareerFields = slices.Clone(comp.CareerFields)
		c.index[comp.Key] = len(c.competencies)
		c.competencies = append(c.competencies, comp)
	}

	// Aliases are single hop: the target must be a current key and an alias
	// may not shadow one. This also rules out cycles.
	for from, to := range aliases {
		if _, ok := c.index[from]; ok {
			return nil, fmt.Errorf("%w: alias %q shadows a current competency", ErrInvalidCatalog, from)
		}
		if _, ok := c.index[to]; !ok {
			return nil, fmt.Errorf("%w: alias %q targets unknown competency %q", ErrInvalidCatalog, from, to)
		}
		c.aliases[from] = to
	}

	for key, res := range resources {
		if _, ok := c.index[key]; !ok {
			return nil, fmt.Errorf("%w: resources for unknown competency %q", ErrInvalidCatalog, key)
		}
		c.resources[key] = Resources{
			Courses:    slices.Clone(res.Courses),
			Activities: slices.Clone(res.Activities),
		}
	}

	return c, nil
}

// ResolveKey returns the current key for k. Keys without an alias entry are
// returned unchanged, even when unknown; use Contains to check membership.
func (c *Catalog) ResolveKey(k Key) Key {
	if to, ok := c.aliases[k]; ok {
		return to
	}
	return k
}

// Contains reports whether k is a current competency key.
func (c *Catalog) Contains(k Key) bool {
	_, ok := c.index[k]
	return ok
}

// Index returns the catalog position of a current key.
func (c *Catalog) Index(k Key) (int, bool) {
	i, ok := c.index[k]
	return i, ok
}

// Len returns the number of current competencies.
func (c *Catalog) Len() int { return len(c.competencies) }

// Keys returns current keys in catalog order.
func (c *Catalog) Keys() []Key {
	keys := make([]Key, len(c.competencies))
	for i, comp := range c.competencies {
		keys[i] = comp.Key
	}
	return keys
}

// Competencies returns a copy of the current competencies in catalog order.
func (c *Catalog) Competencies() []Competency {
	out := make([]Competency, len(c.competencies))
	for i, comp := range c.competencies {
		out[i] = clone(comp)
	}
	return out
}

// Lookup returns the competency for a current key.
func (c *Catalog) Lookup(k Key) (Competency, bool) {
	i, ok := c.index[k]
	if !ok {
		return Competency{}, false
	}
	return clone(c.competencies[i]), true
}

// Aliases returns a copy of the alias table.
func (c *Catalog) Aliases() map[Key]Key {
	out := make(map[Key]Key, len(c.aliases))
	for from, to := range c.aliases {
		out[from] = to
	}
	return out
}

// Resources returns the development resources of a current key. Unknown keys
// yield empty resources.
func (c *Catalog) Resources(k Key) Resources {
	res := c.resources[k]
	return Resources{
		Courses:    slices.Clone(res.Courses),
		Activities: slices.Clone(res.Activities),
	}
}

// DisplayMap maps every current key and every alias key to the display
// metadata of its canonical competency, so questions tagged with legacy keys
// can be labelled without special cases.
func (c *Catalog) DisplayMap() map[Key]Competency {
	out := make(map[Key]Competency, len(c.competencies)+len(c.aliases))
	for _, comp := range c.competencies {
		out[comp.Key] = clone(comp)
	}
	for from, to := range c.aliases {
		out[from] = clone(c.competencies[c.index[to]])
	}
	return out
}

func clone(comp Competency) Competency {
	comp.CareerFields = slices.Clone(comp.CareerFields)
	return comp
}
