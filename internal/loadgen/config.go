// Package loadgen drives a running competency service with synthetic
// questionnaire submissions and reports what the service did with them.
package loadgen

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/okian/competency/pkg/logger"
)

// Defaults for Config fields left at their zero value.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultUsers   = 100
	DefaultTimeout = 30 * time.Second
	DefaultTeacher = "loadgen-teacher"
)

// Errors returned by Run.
var (
	ErrUnhealthy       = errors.New("service unhealthy")
	ErrNoQuestions     = errors.New("service has no active questions")
	ErrUnexpectedReply = errors.New("unexpected response")
)

// Config describes one load run.
type Config struct {
	BaseURL string        // service root, without trailing slash
	Users   int           // number of synthetic students, one submission each
	Workers int           // concurrent submitters
	Timeout time.Duration // per-request timeout
	Teacher string        // user id used to read statistics
	Seed    uint64        // answer picker seed; zero picks a random one
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Users <= 0 {
		c.Users = DefaultUsers
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU() * 2
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Teacher == "" {
		c.Teacher = DefaultTeacher
	}
	return c
}

// Option configures Run.
type Option func(*options)

type options struct {
	client *http.Client
	logger logger.Logger
}

// WithHTTPClient overrides the HTTP client. Its timeout wins over Config.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.client = c
		}
	}
}

// WithLogger sets the logger used for progress output.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Summary is the per-competency statistics block read back from the service.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Report holds the outcome of a run.
type Report struct {
	Questions int
	Submitted int
	Stored    int
	Duplicate int
	Failed    int
	Stats     map[string]Summary
	Duration  time.Duration
}

// Throughput returns submissions per second.
func (r Report) Throughput() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Submitted) / r.Duration.Seconds()
}
