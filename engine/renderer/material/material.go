package material

import (
	"cogentcore.org/core/math32"
)

// Material describes how a surface scatters and emits light. Materials are referenced by index
// from the scene's spheres and planes and are never removed, so an index stays valid for the
// lifetime of the scene.
type Material struct {
	// BaseColor is the linear RGB albedo, each channel in [0, 1].
	BaseColor math32.Vector3
	// EmissiveColor is the linear RGB color of emitted light, each channel in [0, 1].
	EmissiveColor math32.Vector3
	// EmissiveStrength scales EmissiveColor. Zero means the surface does not glow.
	EmissiveStrength float32
}

// NewMaterial creates a Material configured with the provided options.
// Without options the material is a non-emissive light grey (0.9, 0.9, 0.9).
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := Material{
		BaseColor: math32.Vec3(0.9, 0.9, 0.9),
	}
	for _, opt := range options {
		opt(&m)
	}
	return m
}

// Clamped returns the material with every color channel in [0, 1] and a non-negative strength.
func (m Material) Clamped() Material {
	m.BaseColor = clamp01(m.BaseColor)
	m.EmissiveColor = clamp01(m.EmissiveColor)
	m.EmissiveStrength = max(m.EmissiveStrength, 0)
	return m
}

// Emissive reports whether the material contributes light.
func (m Material) Emissive() bool {
	return m.EmissiveStrength > 0 && (m.EmissiveColor.X > 0 || m.EmissiveColor.Y > 0 || m.EmissiveColor.Z > 0)
}

func clamp01(c math32.Vector3) math32.Vector3 {
	return math32.Vec3(min(max(c.X, 0), 1), min(max(c.Y, 0), 1), min(max(c.Z, 0), 1))
}
