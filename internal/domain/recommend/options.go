package recommend

import "github.com/okian/competency/internal/domain/normalize"

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithNormalizer replaces the normalizer built from the catalog.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(g *Generator) {
		if n != nil {
			g.normalizer = n
		}
	}
}
