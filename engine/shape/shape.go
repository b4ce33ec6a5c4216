// Package shape holds the 4D primitives the ray tracing kernel intersects.
package shape

import (
	"cogentcore.org/core/math32"
)

// DefaultNormal is the normal a plane falls back to when its normal has no length.
var DefaultNormal = math32.Vec4(0, 1, 0, 0)

// HyperSphere is the set of points at Radius from Center in 4D space.
type HyperSphere struct {
	Center   math32.Vector4
	Radius   float32
	Material uint32
}

// HyperPlane is the 3D subspace through Point perpendicular to Normal.
type HyperPlane struct {
	Point    math32.Vector4
	Normal   math32.Vector4
	Material uint32
}

// Clamped returns the sphere with a non-negative radius and a material index below
// materialCount. With no materials the index is 0.
func (s HyperSphere) Clamped(materialCount int) HyperSphere {
	s.Radius = max(s.Radius, 0)
	s.Material = clampMaterial(s.Material, materialCount)
	return s
}

// Clamped returns the plane with a unit normal and a material index below materialCount.
// A zero normal is replaced by DefaultNormal.
func (p HyperPlane) Clamped(materialCount int) HyperPlane {
	if l := p.Normal.Length(); l > 1e-6 {
		p.Normal = p.Normal.DivScalar(l)
	} else {
		p.Normal = DefaultNormal
	}
	p.Material = clampMaterial(p.Material, materialCount)
	return p
}

func clampMaterial(m uint32, count int) uint32 {
	if count <= 0 {
		return 0
	}
	return min(m, uint32(count-1))
}
