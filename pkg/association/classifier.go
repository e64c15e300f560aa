package association

import (
	"github.com/chazu/hangerlink/pkg/geom"
	"github.com/chazu/hangerlink/pkg/scene"
)

// DefaultThickness is the interaction thickness in millimetres.
const DefaultThickness = 10.0

// PipeProbeBox shrinks the pipe's box to an interaction shell: the longest
// axis is kept and the two cross-section half-extents are clamped to at
// most thickness. It never grows the box.
func PipeProbeBox(pipe *scene.Element, thickness float64) (geom.AABB, bool) {
	bb, ok := pipe.Box()
	if !ok {
		return geom.AABB{}, false
	}
	c, hx, hy, hz := geom.HalfExtents(bb)
	switch geom.LongestAxis(hx, hy, hz) {
	case geom.AxisX:
		hy, hz = min(hy, thickness), min(hz, thickness)
	case geom.AxisY:
		hx, hz = min(hx, thickness), min(hz, thickness)
	default:
		hx, hy = min(hx, thickness), min(hy, thickness)
	}
	return geom.FromHalfExtents(c, hx, hy, hz), true
}

// ClampBodyBox drops a clamp's antenna: the hanger's longest axis
// half-extent is set to thickness and the box is re-centred along that
// axis on the projection of its center onto the pipe axis. Without a pipe
// axis the original center is kept.
func ClampBodyBox(hanger, pipe *scene.Element, thickness float64) (geom.AABB, bool) {
	bb, ok := hanger.Box()
	if !ok {
		return geom.AABB{}, false
	}
	c0, hx, hy, hz := geom.HalfExtents(bb)

	proj := c0
	if pipe.IsCurve() {
		proj = pipe.Axis.Project(c0)
	}

	axis := geom.LongestAxis(hx, hy, hz)
	c := c0.With(axis, proj.Get(axis))
	switch axis {
	case geom.AxisX:
		hx = thickness
	case geom.AxisY:
		hy = thickness
	default:
		hz = thickness
	}
	return geom.FromHalfExtents(c, hx, hy, hz), true
}

// PortalWallBox models a portal as a thin wall: its shortest axis
// half-extent is clamped to at most thickness.
func PortalWallBox(hanger *scene.Element, thickness float64) (geom.AABB, bool) {
	bb, ok := hanger.Box()
	if !ok {
		return geom.AABB{}, false
	}
	c, hx, hy, hz := geom.HalfExtents(bb)
	switch geom.ShortestAxis(hx, hy, hz) {
	case geom.AxisX:
		hx = min(hx, thickness)
	case geom.AxisY:
		hy = min(hy, thickness)
	default:
		hz = min(hz, thickness)
	}
	return geom.FromHalfExtents(c, hx, hy, hz), true
}

// BelongsClamp reports whether a clamp hanger grips pipe.
func BelongsClamp(hanger, pipe *scene.Element, thickness float64) bool {
	probe, ok := PipeProbeBox(pipe, thickness)
	if !ok {
		return false
	}
	body, ok := ClampBodyBox(hanger, pipe, thickness)
	if !ok {
		return false
	}
	return geom.Intersects(probe, body)
}

// BelongsPortal reports whether pipe passes through a portal hanger.
func BelongsPortal(hanger, pipe *scene.Element, thickness float64) bool {
	probe, ok := PipeProbeBox(pipe, thickness)
	if !ok {
		return false
	}
	wall, ok := PortalWallBox(hanger, thickness)
	if !ok {
		return false
	}
	return geom.Intersects(probe, wall)
}

// Classifier combines kind resolution with the membership rules.
type Classifier struct {
	Kinds     *KindTable
	Thickness float64
}

// NewClassifier returns a classifier using kinds and thickness. A nil
// table selects DefaultKindTable.
func NewClassifier(kinds *KindTable, thickness float64) *Classifier {
	if kinds == nil {
		kinds = DefaultKindTable()
	}
	return &Classifier{Kinds: kinds, Thickness: thickness}
}

// HangerCategory returns the category candidates are drawn from.
func (c *Classifier) HangerCategory() scene.Category {
	return c.Kinds.Category()
}

// Match resolves the hanger's kind and tests membership with the matching
// rule. Unknown kinds never belong.
func (c *Classifier) Match(hanger, pipe *scene.Element) (Kind, bool) {
	kind := c.Kinds.Classify(hanger)
	switch kind {
	case KindClamp:
		return kind, BelongsClamp(hanger, pipe, c.Thickness)
	case KindPortal:
		return kind, BelongsPortal(hanger, pipe, c.Thickness)
	default:
		return kind, false
	}
}

// Belongs reports whether hanger belongs to pipe.
func (c *Classifier) Belongs(hanger, pipe *scene.Element) bool {
	_, ok := c.Match(hanger, pipe)
	return ok
}

// ProbeRegion returns the pipe probe box padded by pad, used to prefilter
// candidate hangers.
func (c *Classifier) ProbeRegion(pipe *scene.Element, pad float64) (geom.AABB, bool) {
	probe, ok := PipeProbeBox(pipe, c.Thickness)
	if !ok {
		return geom.AABB{}, false
	}
	return probe.Pad(pad), true
}
