package geom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or direction in scene space. All coordinates of a scene
// share one linear unit.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return fromR3(r3.Add(v.r3(), o.r3()))
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return fromR3(r3.Sub(v.r3(), o.r3()))
}

// Scale returns v * f.
func (v Vec3) Scale(f float64) Vec3 {
	return fromR3(r3.Scale(f, v.r3()))
}

// Get returns the component along axis a.
func (v Vec3) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// With returns a copy of v with the component along axis a replaced.
func (v Vec3) With(a Axis, f float64) Vec3 {
	switch a {
	case AxisX:
		v.X = f
	case AxisY:
		v.Y = f
	default:
		v.Z = f
	}
	return v
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

func (v Vec3) r3() r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromR3(v r3.Vec) Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}
