package scene

import (
	"strconv"

	"github.com/chazu/hangerlink/pkg/geom"
)

// ElementID identifies an element within a document.
type ElementID int64

func (id ElementID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Category groups elements by discipline.
type Category string

const (
	CategoryPipeCurves          Category = "pipe-curves"
	CategoryMechanicalEquipment Category = "mechanical-equipment"
)

// Element is a read-only snapshot of a scene object.
type Element struct {
	ID       ElementID
	Category Category
	Name     string
	TypeName string

	// Bounds is the model-space box; ViewBounds the view-space box. Either
	// may be nil when the host cannot resolve geometry.
	Bounds     *geom.AABB
	ViewBounds *geom.AABB

	// Axis is set for linear runs (pipes).
	Axis *geom.Segment

	Params map[string]any
}

// Box returns the element's bounding box, preferring model space.
func (e *Element) Box() (geom.AABB, bool) {
	if e == nil {
		return geom.AABB{}, false
	}
	if e.Bounds != nil {
		return *e.Bounds, true
	}
	if e.ViewBounds != nil {
		return *e.ViewBounds, true
	}
	return geom.AABB{}, false
}

// DisplayName returns the type name, falling back to the element name.
func (e *Element) DisplayName() string {
	if e.TypeName != "" {
		return e.TypeName
	}
	return e.Name
}

// IsCurve reports whether the element exposes an axis line.
func (e *Element) IsCurve() bool {
	return e != nil && e.Axis != nil
}
