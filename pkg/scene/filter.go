package scene

import (
	"fmt"
	"slices"
)

// FilterID identifies a view filter definition.
type FilterID int64

// FilterKind distinguishes how a filter selects elements.
type FilterKind int

const (
	FilterRule      FilterKind = iota // categories + evaluated predicate
	FilterSelection                   // explicit element id set
)

func (k FilterKind) String() string {
	switch k {
	case FilterRule:
		return "rule"
	case FilterSelection:
		return "selection"
	default:
		return fmt.Sprintf("FilterKind(%d)", int(k))
	}
}

// Predicate decides whether an element satisfies a rule filter.
type Predicate interface {
	Match(e *Element) (bool, error)
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(e *Element) (bool, error)

func (f PredicateFunc) Match(e *Element) (bool, error) { return f(e) }

// Filter is a view filter definition. Rule filters use Categories and
// Predicate; selection filters use IDs.
type Filter struct {
	ID         FilterID
	Name       string
	Kind       FilterKind
	Categories []Category
	Predicate  Predicate
	IDs        []ElementID
}

// AppliesTo reports whether the filter can affect elements of category c.
// Selection filters apply to every category.
func (f *Filter) AppliesTo(c Category) bool {
	if f.Kind == FilterSelection {
		return true
	}
	return slices.Contains(f.Categories, c)
}

// Matches reports whether e is selected by the filter. A rule filter
// without a predicate selects nothing.
func (f *Filter) Matches(e *Element) (bool, error) {
	switch f.Kind {
	case FilterSelection:
		return slices.Contains(f.IDs, e.ID), nil
	case FilterRule:
		if f.Predicate == nil || !slices.Contains(f.Categories, e.Category) {
			return false, nil
		}
		ok, err := f.Predicate.Match(e)
		if err != nil {
			return false, fmt.Errorf("filter %q: %w", f.Name, err)
		}
		return ok, nil
	default:
		return false, fmt.Errorf("filter %q: unsupported kind %s", f.Name, f.Kind)
	}
}

// FilterBinding attaches a filter to a view with the view's visibility
// setting for it.
type FilterBinding struct {
	Filter  *Filter
	Visible bool
}
