// Package memory is an in-process scene host. Elements are indexed in an
// R-tree for bounding-box queries; views carry their own hidden state and
// filter bindings; hides are staged in a transaction and applied on commit.
package memory

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/hangerlink/pkg/geom"
	"github.com/chazu/hangerlink/pkg/scene"
)

// indexSlack widens indexed rectangles so zero-extent boxes remain
// searchable; rtreego rejects empty sides and treats touching as disjoint.
const indexSlack = 1e-6

// Compile-time interface check.
var _ scene.Document = (*Document)(nil)

// Document holds elements and views.
type Document struct {
	elements  map[scene.ElementID]*scene.Element
	order     []scene.ElementID
	tree      *rtreego.Rtree
	views     map[scene.ViewID]*View
	viewOrder []scene.ViewID
	viewNames map[string]scene.ViewID
	tx        *Tx

	// OnCommit, when set, runs before staged changes are applied. A
	// non-nil error aborts the commit and discards the changes.
	OnCommit func(tx scene.Transaction) error
}

// New creates an empty document.
func New() *Document {
	return &Document{
		elements:  make(map[scene.ElementID]*scene.Element),
		tree:      rtreego.NewTree(3, 25, 50),
		views:     make(map[scene.ViewID]*View),
		viewNames: make(map[string]scene.ViewID),
	}
}

// Add inserts an element. Ids must be unique.
func (d *Document) Add(e *scene.Element) error {
	if e == nil {
		return fmt.Errorf("memory: nil element")
	}
	if _, exists := d.elements[e.ID]; exists {
		return fmt.Errorf("memory: duplicate element id %s", e.ID)
	}
	d.elements[e.ID] = e
	d.order = append(d.order, e.ID)
	if bb, ok := e.Box(); ok && bb.Valid() {
		d.tree.Insert(&indexed{elem: e, rect: toRect(bb)})
	}
	return nil
}

// MustAdd is like Add but panics on error. Intended for fixtures.
func (d *Document) MustAdd(es ...*scene.Element) *Document {
	for _, e := range es {
		if err := d.Add(e); err != nil {
			panic(err)
		}
	}
	return d
}

// NewView creates and registers an empty view. Names must be unique.
func (d *Document) NewView(id scene.ViewID, name string) (*View, error) {
	if _, exists := d.views[id]; exists {
		return nil, fmt.Errorf("memory: duplicate view id %d", id)
	}
	if _, exists := d.viewNames[name]; exists && name != "" {
		return nil, fmt.Errorf("memory: duplicate view name %q", name)
	}
	v := newView(d, id, name)
	d.views[id] = v
	d.viewOrder = append(d.viewOrder, id)
	if name != "" {
		d.viewNames[name] = id
	}
	return v, nil
}

// View returns the view with the given id.
func (d *Document) View(id scene.ViewID) (*View, bool) {
	v, ok := d.views[id]
	return v, ok
}

// Lookup returns the view with the given name.
func (d *Document) Lookup(name string) (*View, error) {
	id, ok := d.viewNames[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", scene.ErrUnknownView, name)
	}
	return d.views[id], nil
}

// Views returns all views in creation order.
func (d *Document) Views() []*View {
	out := make([]*View, 0, len(d.viewOrder))
	for _, id := range d.viewOrder {
		out = append(out, d.views[id])
	}
	return out
}

// Len returns the number of elements.
func (d *Document) Len() int {
	return len(d.elements)
}

// Element implements scene.Document.
func (d *Document) Element(id scene.ElementID) (*scene.Element, bool) {
	e, ok := d.elements[id]
	return e, ok
}

// Elements implements scene.Document.
func (d *Document) Elements(c scene.Category) []*scene.Element {
	var out []*scene.Element
	for _, id := range d.order {
		if e := d.elements[id]; e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// ElementsInView implements scene.Document.
func (d *Document) ElementsInView(v scene.View, c scene.Category) []*scene.Element {
	mv := d.own(v)
	var out []*scene.Element
	for _, e := range d.Elements(c) {
		if mv == nil || mv.Contains(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// IntersectingInView implements scene.Document. Candidates come from the
// R-tree and are confirmed with an exact box test, sorted by id.
func (d *Document) IntersectingInView(v scene.View, c scene.Category, box geom.AABB) []*scene.Element {
	if !box.Valid() {
		return nil
	}
	mv := d.own(v)
	var out []*scene.Element
	for _, s := range d.tree.SearchIntersect(toRect(box)) {
		e := s.(*indexed).elem
		if e.Category != c {
			continue
		}
		if mv != nil && !mv.Contains(e.ID) {
			continue
		}
		if bb, ok := e.Box(); !ok || !geom.Intersects(bb, box) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *scene.Element) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// own returns v as a view of this document, or nil for foreign views.
func (d *Document) own(v scene.View) *View {
	mv, ok := v.(*View)
	if !ok || mv.doc != d {
		return nil
	}
	return mv
}

// indexed adapts an element to rtreego.Spatial.
type indexed struct {
	elem *scene.Element
	rect rtreego.Rect
}

func (x *indexed) Bounds() rtreego.Rect {
	return x.rect
}

func toRect(bb geom.AABB) rtreego.Rect {
	lo := rtreego.Point{bb.Min.X - indexSlack, bb.Min.Y - indexSlack, bb.Min.Z - indexSlack}
	hi := rtreego.Point{bb.Max.X + indexSlack, bb.Max.Y + indexSlack, bb.Max.Z + indexSlack}
	r, err := rtreego.NewRectFromPoints(lo, hi)
	if err != nil {
		panic(fmt.Sprintf("memory: invalid index rect %s: %v", bb, err))
	}
	return r
}
