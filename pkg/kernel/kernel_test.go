package kernel

import (
	"testing"

	"github.com/chazu/hangerlink/pkg/geom"
)

// fakeSolid is a literal box.
type fakeSolid geom.AABB

func (f fakeSolid) BoundingBox() geom.AABB { return geom.AABB(f) }

// boxKernel unions by merging boxes; enough to exercise the helpers.
type boxKernel struct{ unions int }

func (k *boxKernel) Box(x, y, z float64) Solid {
	return fakeSolid{Max: geom.Vec3{X: x, Y: y, Z: z}}
}
func (k *boxKernel) Cylinder(h, r float64) Solid { return nil }
func (k *boxKernel) Segment(a, b geom.Vec3, r float64) Solid {
	return fakeSolid(geom.Box(a, b).Pad(r))
}
func (k *boxKernel) Union(a, b Solid) Solid {
	k.unions++
	x, y := a.BoundingBox(), b.BoundingBox()
	return fakeSolid{
		Min: geom.Vec3{X: min(x.Min.X, y.Min.X), Y: min(x.Min.Y, y.Min.Y), Z: min(x.Min.Z, y.Min.Z)},
		Max: geom.Vec3{X: max(x.Max.X, y.Max.X), Y: max(x.Max.Y, y.Max.Y), Z: max(x.Max.Z, y.Max.Z)},
	}
}
func (k *boxKernel) Translate(s Solid, x, y, z float64) Solid { return s }
func (k *boxKernel) Rotate(s Solid, x, y, z float64) Solid    { return s }

func TestUnionAll(t *testing.T) {
	tests := []struct {
		name   string
		solids []Solid
		want   *geom.AABB
		unions int
	}{
		{"empty", nil, nil, 0},
		{"only nil", []Solid{nil, nil}, nil, 0},
		{"single", []Solid{fakeSolid{Max: geom.Vec3{X: 1, Y: 1, Z: 1}}}, &geom.AABB{Max: geom.Vec3{X: 1, Y: 1, Z: 1}}, 0},
		{
			"two boxes",
			[]Solid{
				fakeSolid{Max: geom.Vec3{X: 1, Y: 1, Z: 1}},
				nil,
				fakeSolid{Min: geom.Vec3{X: -2}, Max: geom.Vec3{Y: 3, Z: 1}},
			},
			&geom.AABB{Min: geom.Vec3{X: -2}, Max: geom.Vec3{X: 1, Y: 3, Z: 1}},
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := &boxKernel{}
			got, ok := Bounds(UnionAll(k, tt.solids...))
			if tt.want == nil {
				if ok {
					t.Fatalf("Bounds = %s, want none", got)
				}
				return
			}
			if !ok {
				t.Fatal("Bounds returned !ok")
			}
			if got != *tt.want {
				t.Errorf("Bounds = %s, want %s", got, *tt.want)
			}
			if k.unions != tt.unions {
				t.Errorf("unions = %d, want %d", k.unions, tt.unions)
			}
		})
	}
}
