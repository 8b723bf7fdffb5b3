package scoring

// DefaultMaxOptionScore is the highest score a single option can carry.
const DefaultMaxOptionScore = 4

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxOptionScore sets the per-question maximum used as the denominator.
// Non-positive values are ignored.
func WithMaxOptionScore(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxOptionScore = n
		}
	}
}
