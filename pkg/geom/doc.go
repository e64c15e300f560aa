// Package geom provides the axis-aligned bounding box arithmetic used to
// associate hangers with pipes. Every function is pure and total.
package geom
