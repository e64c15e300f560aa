// Package visibility decides whether an element is hidden in a view from
// three independent sources: per-element hides, category hides, and view
// filters toggled off.
package visibility

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/chazu/hangerlink/pkg/scene"
)

// Resolver answers hidden-state queries against one document. It keeps no
// state between calls, so filter edits are always seen.
type Resolver struct {
	doc     scene.Document
	hostCat scene.Category
	logger  *log.Logger
}

// offMemo caches the off filters of one view per category for the
// duration of a single query.
type offMemo map[scene.Category][]*scene.Filter

// NewResolver returns a resolver over doc whose host curves belong to
// hostCat. A nil logger discards output.
func NewResolver(doc scene.Document, hostCat scene.Category, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{doc: doc, hostCat: hostCat, logger: logger}
}

// IsHidden reports whether e is hidden in v.
func (r *Resolver) IsHidden(v scene.View, e *scene.Element) bool {
	return r.isHidden(v, e, make(offMemo))
}

func (r *Resolver) isHidden(v scene.View, e *scene.Element, memo offMemo) bool {
	if e == nil {
		return false
	}
	if v.IsElementHidden(e.ID) {
		return true
	}
	if v.IsCategoryHidden(e.Category) {
		return true
	}
	for _, f := range r.offFilters(v, e.Category, memo) {
		ok, err := f.Matches(e)
		if err != nil {
			r.logger.Warn("filter evaluation failed", "view", v.Name(), "element", e.ID, "err", err)
			continue
		}
		if ok {
			r.logger.Debug("hidden by filter", "view", v.Name(), "element", e.ID, "filter", f.Name)
			return true
		}
	}
	return false
}

// offFilters returns the filters of v that are toggled off and can apply
// to category c.
func (r *Resolver) offFilters(v scene.View, c scene.Category, memo offMemo) []*scene.Filter {
	if fs, ok := memo[c]; ok {
		return fs
	}
	fs := lo.FilterMap(v.Filters(), func(b scene.FilterBinding, _ int) (*scene.Filter, bool) {
		return b.Filter, !b.Visible && b.Filter != nil && b.Filter.AppliesTo(c)
	})
	memo[c] = fs
	return fs
}

// HiddenHostCurves returns the ids of every host curve in the document that
// is hidden in v, sorted ascending. The whole document is scanned so that
// curves excluded from the view by a category hide are still found.
func (r *Resolver) HiddenHostCurves(v scene.View) []scene.ElementID {
	curves := r.doc.Elements(r.hostCat)

	if v.CanCategoryBeHidden(r.hostCat) && v.IsCategoryHidden(r.hostCat) {
		r.logger.Debug("host category hidden", "view", v.Name(), "count", len(curves))
		return sortedIDs(curves)
	}

	memo := make(offMemo)
	hidden := lo.Filter(curves, func(e *scene.Element, _ int) bool {
		return r.isHidden(v, e, memo)
	})
	return sortedIDs(hidden)
}

func sortedIDs(es []*scene.Element) []scene.ElementID {
	ids := lo.Uniq(lo.Map(es, func(e *scene.Element, _ int) scene.ElementID { return e.ID }))
	slices.Sort(ids)
	return ids
}
