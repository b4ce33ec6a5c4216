package material

import "cogentcore.org/core/math32"

// MaterialBuilderOption is a function that configures a material during construction.
type MaterialBuilderOption func(*Material)

// WithBaseColor is an option builder that sets the albedo of the material.
//
// Parameters:
//   - r, g, b: the linear RGB albedo
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(r, g, b float32) MaterialBuilderOption {
	return func(m *Material) {
		m.BaseColor = math32.Vec3(r, g, b)
	}
}

// WithEmission is an option builder that makes the material glow.
//
// Parameters:
//   - r, g, b: the linear RGB emission color
//   - strength: the emission strength
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emission option to a material
func WithEmission(r, g, b, strength float32) MaterialBuilderOption {
	return func(m *Material) {
		m.EmissiveColor = math32.Vec3(r, g, b)
		m.EmissiveStrength = strength
	}
}
