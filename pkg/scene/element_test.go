package scene

import (
	"errors"
	"testing"

	"github.com/chazu/hangerlink/pkg/geom"
)

func TestElementBoxPrefersModelSpace(t *testing.T) {
	model := geom.AABB{Max: geom.Vec3{X: 1, Y: 1, Z: 1}}
	view := geom.AABB{Max: geom.Vec3{X: 2, Y: 2, Z: 2}}

	tests := []struct {
		name   string
		e      *Element
		want   geom.AABB
		wantOK bool
	}{
		{"both", &Element{Bounds: &model, ViewBounds: &view}, model, true},
		{"view only", &Element{ViewBounds: &view}, view, true},
		{"none", &Element{}, geom.AABB{}, false},
		{"nil element", nil, geom.AABB{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.e.Box()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Box() = %s, %v; want %s, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDisplayNameFallback(t *testing.T) {
	if got := (&Element{Name: "inst", TypeName: "type"}).DisplayName(); got != "type" {
		t.Errorf("DisplayName() = %q, want type", got)
	}
	if got := (&Element{Name: "inst"}).DisplayName(); got != "inst" {
		t.Errorf("DisplayName() = %q, want inst", got)
	}
}

func TestFilterMatches(t *testing.T) {
	pipe := &Element{ID: 7, Category: CategoryPipeCurves}
	always := PredicateFunc(func(*Element) (bool, error) { return true, nil })
	broken := PredicateFunc(func(*Element) (bool, error) { return false, errors.New("boom") })

	tests := []struct {
		name    string
		f       Filter
		want    bool
		wantErr bool
	}{
		{"rule matches", Filter{Kind: FilterRule, Categories: []Category{CategoryPipeCurves}, Predicate: always}, true, false},
		{"rule wrong category", Filter{Kind: FilterRule, Categories: []Category{CategoryMechanicalEquipment}, Predicate: always}, false, false},
		{"rule without predicate", Filter{Kind: FilterRule, Categories: []Category{CategoryPipeCurves}}, false, false},
		{"rule predicate error", Filter{Kind: FilterRule, Categories: []Category{CategoryPipeCurves}, Predicate: broken}, false, true},
		{"selection member", Filter{Kind: FilterSelection, IDs: []ElementID{3, 7}}, true, false},
		{"selection non member", Filter{Kind: FilterSelection, IDs: []ElementID{3}}, false, false},
		{"unknown kind", Filter{Kind: FilterKind(9)}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.f.Matches(pipe)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Matches() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterAppliesTo(t *testing.T) {
	sel := Filter{Kind: FilterSelection}
	if !sel.AppliesTo(CategoryPipeCurves) {
		t.Error("selection filter should apply to every category")
	}
	rule := Filter{Kind: FilterRule, Categories: []Category{CategoryPipeCurves}}
	if rule.AppliesTo(CategoryMechanicalEquipment) {
		t.Error("rule filter applied to undeclared category")
	}
}
