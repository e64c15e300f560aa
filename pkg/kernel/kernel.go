// Package kernel defines the abstract geometry kernel interface.
// Scene files may describe elements as solids rather than literal boxes;
// a kernel builds those solids and reports their bounding boxes.
package kernel

import "github.com/chazu/hangerlink/pkg/geom"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() geom.AABB
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid
	Segment(start, end geom.Vec3, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
}

// UnionAll folds solids into one. It returns nil for an empty list.
func UnionAll(k Kernel, solids ...Solid) Solid {
	var out Solid
	for _, s := range solids {
		if s == nil {
			continue
		}
		if out == nil {
			out = s
			continue
		}
		out = k.Union(out, s)
	}
	return out
}

// Bounds returns the bounding box of s, or false when s is nil.
func Bounds(s Solid) (geom.AABB, bool) {
	if s == nil {
		return geom.AABB{}, false
	}
	return s.BoundingBox(), true
}
