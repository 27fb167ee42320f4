// Package config holds process-level options for a delver.Process
// invocation: worker pool sizing, layout-grouping thresholds and the
// default section-match threshold floor. Shaped as a struct plus
// functional options.
package config

import "runtime"

// Config is the resolved set of options for one Process call.
type Config struct {
	// MaxWorkers bounds how many pages the page interpreter processes
	// concurrently.
	// Defaults to runtime.GOMAXPROCS(0).
	MaxWorkers int

	// LineJoin and BlockJoin are the layout grouper's default proximity
	// thresholds in page-space units.
	LineJoin  float32
	BlockJoin float32

	// SectionMatchThreshold is the default template Section match
	// threshold; a clamp floor of 0.2 is always applied regardless of
	// this default (see DESIGN.md).
	SectionMatchThreshold float32

	// Password, if non-empty, is passed through to the PDF's standard
	// security handler. No brute forcing is ever attempted.
	Password string
}

// Option mutates a Config being built by New.
type Option func(*Config)

// New returns a Config seeded with defaults, then applies opts in order.
func New(opts ...Option) Config {
	cfg := Config{
		MaxWorkers:            runtime.GOMAXPROCS(0),
		LineJoin:              3,
		BlockJoin:             10,
		SectionMatchThreshold: 0.3,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = 1
	}
	return cfg
}

// WithMaxWorkers overrides the page-interpreter worker pool size.
func WithMaxWorkers(n int) Option {
	return func(c *Config) { c.MaxWorkers = n }
}

// WithLayoutThresholds overrides the layout grouper's line/block join
// distances.
func WithLayoutThresholds(lineJoin, blockJoin float32) Option {
	return func(c *Config) {
		c.LineJoin = lineJoin
		c.BlockJoin = blockJoin
	}
}

// WithPassword sets the password passed through to an encrypted PDF.
func WithPassword(password string) Option {
	return func(c *Config) { c.Password = password }
}
