package repository

import "github.com/okian/competency/pkg/logger"

type options struct {
	log          logger.Logger
	maxOpenConns int
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMaxOpenConns caps the SQLite connection pool. Ignored by MemoryStore.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: logger.Nop(), maxOpenConns: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
