package memory

import (
	"slices"

	"github.com/samber/lo"

	"github.com/chazu/hangerlink/pkg/scene"
)

// Compile-time interface check.
var _ scene.View = (*View)(nil)

// View is a visibility context owned by a Document.
type View struct {
	doc        *Document
	id         scene.ViewID
	name       string
	hidden     map[scene.ElementID]bool
	hiddenCats map[scene.Category]bool
	locked     map[scene.Category]bool // categories that cannot be hidden
	filters    []scene.FilterBinding
	members    map[scene.ElementID]bool // nil means every element
}

func newView(d *Document, id scene.ViewID, name string) *View {
	return &View{
		doc:        d,
		id:         id,
		name:       name,
		hidden:     make(map[scene.ElementID]bool),
		hiddenCats: make(map[scene.Category]bool),
		locked:     make(map[scene.Category]bool),
	}
}

func (v *View) ID() scene.ViewID { return v.id }
func (v *View) Name() string     { return v.name }

func (v *View) IsElementHidden(id scene.ElementID) bool {
	return v.hidden[id]
}

func (v *View) IsCategoryHidden(c scene.Category) bool {
	return v.hiddenCats[c]
}

func (v *View) CanCategoryBeHidden(c scene.Category) bool {
	return !v.locked[c]
}

func (v *View) Filters() []scene.FilterBinding {
	return slices.Clone(v.filters)
}

// HideElements implements scene.View. The hide is staged on the open
// transaction and applied when it commits.
func (v *View) HideElements(ids []scene.ElementID) error {
	tx := v.doc.tx
	if tx == nil {
		return scene.ErrNoTransaction
	}
	return tx.stage(v, ids)
}

// Contains reports whether the element is part of the view.
func (v *View) Contains(id scene.ElementID) bool {
	return v.members == nil || v.members[id]
}

// HiddenElements returns the per-element hidden ids, sorted.
func (v *View) HiddenElements() []scene.ElementID {
	ids := lo.Keys(v.hidden)
	slices.Sort(ids)
	return ids
}

// HiddenCategories returns the hidden categories, sorted.
func (v *View) HiddenCategories() []scene.Category {
	cs := lo.Keys(v.hiddenCats)
	slices.Sort(cs)
	return cs
}

// LockedCategories returns the categories that cannot be hidden, sorted.
func (v *View) LockedCategories() []scene.Category {
	cs := lo.Keys(v.locked)
	slices.Sort(cs)
	return cs
}

// Members returns the explicit membership list, or nil when the view
// shows every element.
func (v *View) Members() []scene.ElementID {
	if v.members == nil {
		return nil
	}
	ids := lo.Keys(v.members)
	slices.Sort(ids)
	return ids
}

// ---------------------------------------------------------------------------
// Setup (outside the transaction model; used by loaders and fixtures)
// ---------------------------------------------------------------------------

// SetHidden marks ids hidden in the view immediately.
func (v *View) SetHidden(ids ...scene.ElementID) *View {
	for _, id := range ids {
		v.hidden[id] = true
	}
	return v
}

// HideCategory hides a whole category.
func (v *View) HideCategory(cs ...scene.Category) *View {
	for _, c := range cs {
		v.hiddenCats[c] = true
	}
	return v
}

// LockCategory marks categories as not hideable per element.
func (v *View) LockCategory(cs ...scene.Category) *View {
	for _, c := range cs {
		v.locked[c] = true
	}
	return v
}

// AddFilter attaches f with the given visibility.
func (v *View) AddFilter(f *scene.Filter, visible bool) *View {
	v.filters = append(v.filters, scene.FilterBinding{Filter: f, Visible: visible})
	return v
}

// Restrict limits the view to the given elements.
func (v *View) Restrict(ids ...scene.ElementID) *View {
	if v.members == nil {
		v.members = make(map[scene.ElementID]bool)
	}
	for _, id := range ids {
		v.members[id] = true
	}
	return v
}
