package loadeq

import (
	"fmt"
	"strings"
)

// Config is the load equalizer's configuration block: mode, damping,
// minimum tile granularity, and the frozen flag. It is read-only after
// construction (spec.md §6).
type Config struct {
	// Mode selects 2D, VERTICAL, HORIZONTAL, or DB splitting. Default
	// Mode2D.
	Mode Mode

	// Damping is the exponential-smoothing factor between a leaf's
	// computed target time and its previously measured time, in [0,1].
	// Default 0.5.
	Damping float64

	// Boundary2i is the minimum tile width/height in pixels for 2D
	// modes. Both components must be ≥ 1. Default (1,1).
	Boundary2i [2]int

	// Boundaryf is the minimum DB-range granularity for DB mode. Must
	// be ≥ splitEpsilon. Default splitEpsilon.
	Boundaryf float64

	// Frozen suppresses new split assignments while still running
	// history maintenance. Default false.
	Frozen bool
}

// DefaultConfig returns the configuration spec.md §6 lists as defaults:
// Mode2D, damping 0.5, boundary (1,1) pixels, boundary splitEpsilon,
// not frozen.
func DefaultConfig() Config {
	return Config{
		Mode:       Mode2D,
		Damping:    0.5,
		Boundary2i: [2]int{1, 1},
		Boundaryf:  splitEpsilon,
		Frozen:     false,
	}
}

// ConfigOption customizes a Config built from DefaultConfig.
type ConfigOption func(*Config)

// NewConfig builds a Config starting from DefaultConfig and applying opts
// in order.
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMode sets the split mode.
func WithMode(m Mode) ConfigOption {
	return func(c *Config) { c.Mode = m }
}

// WithDamping sets the damping factor.
func WithDamping(d float64) ConfigOption {
	return func(c *Config) { c.Damping = d }
}

// WithBoundary2i sets the minimum pixel tile size for 2D modes.
func WithBoundary2i(w, h int) ConfigOption {
	return func(c *Config) { c.Boundary2i = [2]int{w, h} }
}

// WithBoundaryf sets the minimum DB-range granularity.
func WithBoundaryf(f float64) ConfigOption {
	return func(c *Config) { c.Boundaryf = f }
}

// WithFrozen sets the frozen flag.
func WithFrozen(frozen bool) ConfigOption {
	return func(c *Config) { c.Frozen = frozen }
}

// Validate reports ErrInvalidConfig if the configuration is out of range.
func (c Config) Validate() error {
	if c.Damping < 0 || c.Damping > 1 {
		return fmt.Errorf("%w: damping %v not in [0,1]", ErrInvalidConfig, c.Damping)
	}
	if c.Boundary2i[0] < 1 || c.Boundary2i[1] < 1 {
		return fmt.Errorf("%w: boundary2i %v must be >= (1,1)", ErrInvalidConfig, c.Boundary2i)
	}
	if c.Boundaryf < splitEpsilon {
		return fmt.Errorf("%w: boundaryf %v must be >= %v", ErrInvalidConfig, c.Boundaryf, splitEpsilon)
	}
	return nil
}

// String renders the configuration using the spec.md §6 text
// serialization grammar, e.g.:
//
//	load_equalizer { mode 2D }
//	load_equalizer { mode DB; damping 0.25; boundary 0.1 }
//
// Fields at their default value are omitted, matching the reference
// implementation's operator<<.
func (c Config) String() string {
	var b strings.Builder
	b.WriteString("load_equalizer { mode ")
	b.WriteString(c.Mode.String())

	if c.Damping != 0.5 {
		fmt.Fprintf(&b, "; damping %v", c.Damping)
	}
	if c.Boundary2i != [2]int{1, 1} {
		fmt.Fprintf(&b, "; boundary [ %d %d ]", c.Boundary2i[0], c.Boundary2i[1])
	}
	if c.Boundaryf != splitEpsilon {
		fmt.Fprintf(&b, "; boundary %v", c.Boundaryf)
	}
	b.WriteString(" }")
	return b.String()
}
