// Package coordinates converts pitch coordinates between the provider's
// coordinate system and caller-chosen target systems.
package coordinates

import (
	"fmt"
	"strings"

	"github.com/okian/gandula/internal/domain/model"
)

// System identifies a pitch coordinate system.
type System string

// Supported systems.
const (
	// SystemPFF is the provider system: origin at the pitch center,
	// x along the long axis, y pointing up, meters.
	SystemPFF System = "pff"
	// SystemMetric has its origin at the top-left corner, y pointing down,
	// meters.
	SystemMetric System = "metric"
	// SystemNormalized has its origin at the top-left corner, y pointing
	// down, both axes scaled to [0, 1].
	SystemNormalized System = "normalized"
)

// ParseSystem parses a coordinate system name (case-insensitive).
func ParseSystem(s string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(s))) {
	case SystemPFF:
		return SystemPFF, nil
	case SystemMetric:
		return SystemMetric, nil
	case SystemNormalized:
		return SystemNormalized, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
}

// Transformer maps provider-system points onto a target system for one
// match's pitch dimensions.
type Transformer struct {
	dims   model.PitchDimensions
	target System
}

// Option applies a configuration option to the Transformer.
type Option func(*Transformer)

// WithTargetSystem sets the target coordinate system.
func WithTargetSystem(s System) Option {
	return func(t *Transformer) {
		if s != "" {
			t.target = s
		}
	}
}

// NewTransformer creates a transformer for the given pitch dimensions.
// The target system defaults to the provider system (identity transform).
func NewTransformer(dims model.PitchDimensions, opts ...Option) (*Transformer, error) {
	if dims.Length <= 0 || dims.Width <= 0 {
		return nil, fmt.Errorf("%w: %.1fx%.1f", ErrInvalidDimensions, dims.Length, dims.Width)
	}

	t := &Transformer{
		dims:   dims,
		target: SystemPFF,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Target returns the configured target system.
func (t *Transformer) Target() System {
	return t.target
}

// TargetDimensions returns the pitch dimensions expressed in the target
// system.
func (t *Transformer) TargetDimensions() model.PitchDimensions {
	if t.target == SystemNormalized {
		return model.PitchDimensions{Length: 1, Width: 1}
	}
	return t.dims
}

// Transform maps a provider-system point onto the target system.
func (t *Transformer) Transform(p model.Point) model.Point {
	switch t.target {
	case SystemMetric:
		return model.Point{
			X: p.X + t.dims.Length/2,
			Y: t.dims.Width/2 - p.Y,
		}
	case SystemNormalized:
		return model.Point{
			X: (p.X + t.dims.Length/2) / t.dims.Length,
			Y: (t.dims.Width/2 - p.Y) / t.dims.Width,
		}
	default:
		return p
	}
}
