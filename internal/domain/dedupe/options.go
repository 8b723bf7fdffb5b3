package dedupe

// DefaultMaxSize is the number of ids kept when no size is configured.
const DefaultMaxSize = 10000

// Option applies a configuration option to the Deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of ids kept in memory. When full, the
// oldest id is forgotten. A size of zero or less keeps every id.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
