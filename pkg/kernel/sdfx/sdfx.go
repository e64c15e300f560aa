// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/hangerlink/pkg/geom"
	"github.com/chazu/hangerlink/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() geom.AABB {
	bb := s.s.BoundingBox()
	return geom.AABB{
		Min: geom.Vec3{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: geom.Vec3{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func vec(p geom.Vec3) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Box creates a box with the given dimensions. The resulting solid has its
// minimum corner at the origin so that a placement offset names the
// corner of the part.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	// sdf.Box3D is centered on the origin.
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Cylinder creates a cylinder along Z centered on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Segment creates a cylinder of the given radius running from start to
// end. It panics on a zero-length segment.
func (k *SdfxKernel) Segment(start, end geom.Vec3, radius float64) kernel.Solid {
	a, b := vec(start), vec(end)
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		panic("sdfx.Segment: zero length")
	}
	cyl := unwrap(k.Cylinder(length, radius))

	// Cylinders are symmetric about their mid plane, so a segment pointing
	// down -Z needs no rotation.
	dir := d.MulScalar(1 / length)
	m := sdf.Identity3d()
	if math.Abs(dir.Z) < 1-1e-12 {
		m = sdf.RotateToVector(v3.Vec{Z: 1}, dir)
	}
	mid := a.Add(b).MulScalar(0.5)
	m = sdf.Translate3d(mid).Mul(m)
	return wrap(sdf.Transform3D(cyl, m))
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(sdf.DtoR(z)).Mul(sdf.RotateY(sdf.DtoR(y))).Mul(sdf.RotateX(sdf.DtoR(x)))
	return wrap(sdf.Transform3D(unwrap(s), m))
}
