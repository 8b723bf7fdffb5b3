package competency

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// fileCatalog is the on-disk YAML shape of a catalog.
type fileCatalog struct {
	Competencies []fileCompetency        `koanf:"competencies" validate:"required,min=1,dive"`
	Aliases      map[string]string       `koanf:"aliases" validate:"dive,keys,required,endkeys,required"`
	Resources    map[string]fileResource `koanf:"resources" validate:"dive,keys,required,endkeys"`
}

type fileCompetency struct {
	Key          string   `koanf:"key" validate:"required"`
	Name         string   `koanf:"name" validate:"required"`
	Description  string   `koanf:"description"`
	CareerFields []string `koanf:"career_fields" validate:"dive,required"`
}

type fileResource struct {
	Courses    []string `koanf:"courses" validate:"dive,required"`
	Activities []string `koanf:"activities" validate:"dive,required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads a YAML catalog from path and builds a Catalog from it.
func LoadFile(path string) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}

	var fc fileCatalog
	if err := k.UnmarshalWithConf("", &fc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadCatalog, path, err)
	}
	if err := validate.Struct(fc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, path, err)
	}

	comps := make([]Competency, len(fc.Competencies))
	for i, fcomp := range fc.Competencies {
		comps[i] = Competency{
			Key:          Key(fcomp.Key),
			Name:         fcomp.Name,
			Description:  fcomp.Description,
			CareerFields: fcomp.CareerFields,
		}
	}
	aliases := make(map[Key]Key, len(fc.Aliases))
	for from, to := range fc.Aliases {
		aliases[Key(from)] = Key(to)
	}
	resources := make(map[Key]Resources, len(fc.Resources))
	for key, res := range fc.Resources {
		resources[Key(key)] = Resources{Courses: res.Courses, Activities: res.Activities}
	}

	return New(comps, aliases, resources)
}
