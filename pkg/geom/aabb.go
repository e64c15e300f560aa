package geom

import "fmt"

// AABB is an axis-aligned bounding box. Min must not exceed Max on any
// axis; zero-extent boxes are valid.
type AABB struct {
	Min Vec3 `json:"min" yaml:"min"`
	Max Vec3 `json:"max" yaml:"max"`
}

// Box returns the AABB spanned by two corners in any order.
func Box(a, b Vec3) AABB {
	return AABB{
		Min: Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)},
		Max: Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)},
	}
}

// Valid reports whether Min <= Max on every axis.
func (b AABB) Valid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Pad grows the box by d on every side.
func (b AABB) Pad(d float64) AABB {
	p := Vec3{d, d, d}
	return AABB{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}

func (b AABB) String() string {
	return fmt.Sprintf("[%s %s]", b.Min, b.Max)
}

// HalfExtents returns the center of b and its half side lengths.
func HalfExtents(b AABB) (center Vec3, hx, hy, hz float64) {
	center = b.Center()
	hx = (b.Max.X - b.Min.X) * 0.5
	hy = (b.Max.Y - b.Min.Y) * 0.5
	hz = (b.Max.Z - b.Min.Z) * 0.5
	return center, hx, hy, hz
}

// FromHalfExtents is the inverse of HalfExtents. The half-extents must be
// non-negative; a negative value yields a box with Min > Max on that axis.
func FromHalfExtents(c Vec3, hx, hy, hz float64) AABB {
	h := Vec3{hx, hy, hz}
	return AABB{Min: c.Sub(h), Max: c.Add(h)}
}

// Intersects reports whether a and b overlap. Boxes that only share a
// boundary intersect.
func Intersects(a, b AABB) bool {
	return !(a.Max.X < b.Min.X || a.Min.X > b.Max.X ||
		a.Max.Y < b.Min.Y || a.Min.Y > b.Max.Y ||
		a.Max.Z < b.Min.Z || a.Min.Z > b.Max.Z)
}
