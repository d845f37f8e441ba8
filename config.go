// config.go — per-call options and the serializable configuration they can be
// built from.
package xgxtrap

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

type config struct {
	strategy  Strategy
	walker    Walker
	retrieval Retrieval
	maxDepth  int
	walkLimit int
	logger    zerolog.Logger
}

func newConfig(opts ...Option) *config {
	c := &config{
		strategy:  Probe(),
		walker:    CallersWalker(),
		retrieval: Duplicate,
		maxDepth:  DefaultMaxDepth,
		walkLimit: DefaultWalkLimit,
		logger:    zerolog.Nop(),
	}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	return c
}

// Option configures one protected call.
type Option func(*config)

// WithStrategy selects the interception variant. nil keeps the default.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		if s != nil {
			c.strategy = s
		}
	}
}

// WithWalker selects the stack walking backend. nil keeps the default.
func WithWalker(w Walker) Option {
	return func(c *config) {
		if w != nil {
			c.walker = w
		}
	}
}

// WithRetrieval selects how the matched payload is handed to the handler.
func WithRetrieval(r Retrieval) Option {
	return func(c *config) { c.retrieval = r }
}

// WithMaxDepth caps the number of frames a trace keeps. n <= 0 keeps the
// default.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithWalkLimit bounds the raw walk. n <= 0 keeps the default.
func WithWalkLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.walkLimit = n
		}
	}
}

// WithLogger routes interception diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Config is the serializable form of the options, suitable for flags, env
// and config files.
type Config struct {
	Strategy  string `mapstructure:"strategy"`
	Walker    string `mapstructure:"walker"`
	Retrieval string `mapstructure:"retrieval"`
	MaxDepth  int    `mapstructure:"max_depth"`
	WalkLimit int    `mapstructure:"walk_limit"`
}

// DefaultConfig mirrors the defaults applied when no option is given.
func DefaultConfig() Config {
	return Config{
		Strategy:  "probe",
		Walker:    "callers",
		Retrieval: Duplicate.String(),
		MaxDepth:  DefaultMaxDepth,
		WalkLimit: DefaultWalkLimit,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs *multierror.Error
	if _, ok := StrategyByName(c.Strategy); !ok {
		errs = multierror.Append(errs, invalidConfig("strategy", fmt.Sprintf("unknown strategy %q", c.Strategy)))
	}
	if _, ok := walkerByName(c.Walker); !ok {
		errs = multierror.Append(errs, invalidConfig("walker", fmt.Sprintf("unknown walker %q", c.Walker)))
	}
	if _, ok := retrievalByName(c.Retrieval); !ok {
		errs = multierror.Append(errs, invalidConfig("retrieval", fmt.Sprintf("unknown retrieval %q", c.Retrieval)))
	}
	if c.MaxDepth < 0 {
		errs = multierror.Append(errs, invalidConfig("max_depth", "must not be negative"))
	}
	if c.WalkLimit < 0 {
		errs = multierror.Append(errs, invalidConfig("walk_limit", "must not be negative"))
	}
	if c.WalkLimit > 0 && c.MaxDepth > c.WalkLimit {
		errs = multierror.Append(errs, invalidConfig("max_depth", "exceeds walk_limit"))
	}
	return errs.ErrorOrNil()
}

// Options validates c and converts it to options.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s, _ := StrategyByName(c.Strategy)
	w, _ := walkerByName(c.Walker)
	r, _ := retrievalByName(c.Retrieval)
	return []Option{
		WithStrategy(s),
		WithWalker(w),
		WithRetrieval(r),
		WithMaxDepth(c.MaxDepth),
		WithWalkLimit(c.WalkLimit),
	}, nil
}

func retrievalByName(name string) (Retrieval, bool) {
	switch name {
	case "", "duplicate":
		return Duplicate, true
	case "borrow":
		return Borrow, true
	}
	return Duplicate, false
}
