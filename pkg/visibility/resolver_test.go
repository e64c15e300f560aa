package visibility

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/hangerlink/pkg/scene"
	"github.com/chazu/hangerlink/pkg/scene/memory"
)

var always = scene.PredicateFunc(func(*scene.Element) (bool, error) { return true, nil })

func pipes(t *testing.T) (*memory.Document, *memory.View) {
	t.Helper()
	d := memory.New().MustAdd(
		&scene.Element{ID: 10, Category: scene.CategoryPipeCurves, Params: map[string]any{"system": "CW"}},
		&scene.Element{ID: 11, Category: scene.CategoryPipeCurves, Params: map[string]any{"system": "HW"}},
		&scene.Element{ID: 12, Category: scene.CategoryPipeCurves},
		&scene.Element{ID: 20, Category: scene.CategoryMechanicalEquipment},
	)
	v, err := d.NewView(1, "Plan")
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return d, v
}

func systemIs(want string) scene.Predicate {
	return scene.PredicateFunc(func(e *scene.Element) (bool, error) {
		return e.Params["system"] == want, nil
	})
}

func TestIsHiddenPerElement(t *testing.T) {
	d, v := pipes(t)
	v.SetHidden(11)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	e10, _ := d.Element(10)
	e11, _ := d.Element(11)
	if r.IsHidden(v, e10) {
		t.Error("element 10 should be visible")
	}
	if !r.IsHidden(v, e11) {
		t.Error("element 11 should be hidden")
	}
	if r.IsHidden(v, nil) {
		t.Error("nil element reported hidden")
	}
}

func TestCategoryHiddenHidesEveryElement(t *testing.T) {
	d, v := pipes(t)
	v.HideCategory(scene.CategoryPipeCurves)
	// A visible filter and no per-element state must not matter.
	v.AddFilter(&scene.Filter{Name: "all", Kind: scene.FilterRule, Categories: []scene.Category{scene.CategoryPipeCurves}, Predicate: always}, true)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	for _, e := range d.Elements(scene.CategoryPipeCurves) {
		if !r.IsHidden(v, e) {
			t.Errorf("element %s should be hidden by category", e.ID)
		}
	}
	if diff := cmp.Diff([]scene.ElementID{10, 11, 12}, r.HiddenHostCurves(v)); diff != "" {
		t.Errorf("HiddenHostCurves mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleFilterNeverHides(t *testing.T) {
	d, v := pipes(t)
	v.AddFilter(&scene.Filter{Name: "cw", Kind: scene.FilterRule, Categories: []scene.Category{scene.CategoryPipeCurves}, Predicate: systemIs("CW")}, true)
	v.AddFilter(&scene.Filter{Name: "picked", Kind: scene.FilterSelection, IDs: []scene.ElementID{10}}, true)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	if got := r.HiddenHostCurves(v); len(got) != 0 {
		t.Errorf("HiddenHostCurves = %v, want none", got)
	}
}

func TestOffRuleFilterHidesMatches(t *testing.T) {
	d, v := pipes(t)
	v.AddFilter(&scene.Filter{Name: "cw", Kind: scene.FilterRule, Categories: []scene.Category{scene.CategoryPipeCurves}, Predicate: systemIs("CW")}, false)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	if diff := cmp.Diff([]scene.ElementID{10}, r.HiddenHostCurves(v)); diff != "" {
		t.Errorf("HiddenHostCurves mismatch (-want +got):\n%s", diff)
	}
}

func TestOffRuleFilterRequiresCategory(t *testing.T) {
	d, v := pipes(t)
	v.AddFilter(&scene.Filter{Name: "equipment only", Kind: scene.FilterRule, Categories: []scene.Category{scene.CategoryMechanicalEquipment}, Predicate: always}, false)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	if got := r.HiddenHostCurves(v); len(got) != 0 {
		t.Errorf("HiddenHostCurves = %v, want none", got)
	}
	e20, _ := d.Element(20)
	if !r.IsHidden(v, e20) {
		t.Error("equipment should be hidden by its own filter")
	}
}

func TestOffSelectionFilterHidesMembers(t *testing.T) {
	d, v := pipes(t)
	v.AddFilter(&scene.Filter{Name: "picked", Kind: scene.FilterSelection, IDs: []scene.ElementID{12, 20}}, false)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	if diff := cmp.Diff([]scene.ElementID{12}, r.HiddenHostCurves(v)); diff != "" {
		t.Errorf("HiddenHostCurves mismatch (-want +got):\n%s", diff)
	}
}

func TestFailingPredicateCountsAsNoMatch(t *testing.T) {
	d, v := pipes(t)
	broken := scene.PredicateFunc(func(*scene.Element) (bool, error) { return false, errors.New("bad expr") })
	v.AddFilter(&scene.Filter{Name: "broken", Kind: scene.FilterRule, Categories: []scene.Category{scene.CategoryPipeCurves}, Predicate: broken}, false)
	v.AddFilter(&scene.Filter{Name: "hw", Kind: scene.FilterRule, Categories: []scene.Category{scene.CategoryPipeCurves}, Predicate: systemIs("HW")}, false)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	if diff := cmp.Diff([]scene.ElementID{11}, r.HiddenHostCurves(v)); diff != "" {
		t.Errorf("HiddenHostCurves mismatch (-want +got):\n%s", diff)
	}
}

func TestCombinedSources(t *testing.T) {
	d, v := pipes(t)
	v.SetHidden(12)
	v.AddFilter(&scene.Filter{Name: "cw", Kind: scene.FilterRule, Categories: []scene.Category{scene.CategoryPipeCurves}, Predicate: systemIs("CW")}, false)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	if diff := cmp.Diff([]scene.ElementID{10, 12}, r.HiddenHostCurves(v)); diff != "" {
		t.Errorf("HiddenHostCurves mismatch (-want +got):\n%s", diff)
	}
}

func TestLockedHostCategorySkipsFastPath(t *testing.T) {
	d, v := pipes(t)
	v.HideCategory(scene.CategoryPipeCurves).LockCategory(scene.CategoryPipeCurves)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	// IsHidden still honours the category flag for each element.
	if diff := cmp.Diff([]scene.ElementID{10, 11, 12}, r.HiddenHostCurves(v)); diff != "" {
		t.Errorf("HiddenHostCurves mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterChangesSeenBetweenQueries(t *testing.T) {
	d, v := pipes(t)
	r := NewResolver(d, scene.CategoryPipeCurves, nil)
	e10, _ := d.Element(10)
	if got := r.HiddenHostCurves(v); len(got) != 0 {
		t.Fatalf("HiddenHostCurves = %v, want none", got)
	}
	if r.IsHidden(v, e10) {
		t.Fatal("element 10 should start visible")
	}

	v.AddFilter(&scene.Filter{Name: "cw", Kind: scene.FilterRule, Categories: []scene.Category{scene.CategoryPipeCurves}, Predicate: systemIs("CW")}, false)
	if diff := cmp.Diff([]scene.ElementID{10}, r.HiddenHostCurves(v)); diff != "" {
		t.Errorf("HiddenHostCurves after filter change (-want +got):\n%s", diff)
	}
	if !r.IsHidden(v, e10) {
		t.Error("IsHidden should see the new off filter")
	}
}

func TestFiltersReadOncePerScan(t *testing.T) {
	d, v := pipes(t)
	cv := &countingView{View: v}
	r := NewResolver(d, scene.CategoryPipeCurves, nil)

	r.HiddenHostCurves(cv)
	if cv.calls != 1 {
		t.Errorf("Filters called %d times in one scan, want 1", cv.calls)
	}
	r.HiddenHostCurves(cv)
	if cv.calls != 2 {
		t.Errorf("Filters called %d times after two scans, want 2", cv.calls)
	}
}

// countingView counts filter lookups.
type countingView struct {
	*memory.View
	calls int
}

func (c *countingView) Filters() []scene.FilterBinding {
	c.calls++
	return c.View.Filters()
}
