package memory

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/hangerlink/pkg/geom"
	"github.com/chazu/hangerlink/pkg/scene"
)

func boxAt(cx, cy, cz, h float64) *geom.AABB {
	b := geom.FromHalfExtents(geom.Vec3{X: cx, Y: cy, Z: cz}, h, h, h)
	return &b
}

func ids(es []*scene.Element) []scene.ElementID {
	out := make([]scene.ElementID, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func fixture(t *testing.T) (*Document, *View) {
	t.Helper()
	d := New().MustAdd(
		&scene.Element{ID: 1, Category: scene.CategoryPipeCurves, Bounds: boxAt(0, 0, 0, 10)},
		&scene.Element{ID: 2, Category: scene.CategoryMechanicalEquipment, Bounds: boxAt(5, 0, 0, 1)},
		&scene.Element{ID: 3, Category: scene.CategoryMechanicalEquipment, Bounds: boxAt(100, 0, 0, 1)},
		&scene.Element{ID: 4, Category: scene.CategoryMechanicalEquipment, Bounds: boxAt(0, 0, 0, 0)},
		&scene.Element{ID: 5, Category: scene.CategoryMechanicalEquipment}, // no geometry
	)
	v, err := d.NewView(1, "Level 1")
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return d, v
}

func TestAddRejectsDuplicates(t *testing.T) {
	d, _ := fixture(t)
	if err := d.Add(&scene.Element{ID: 1}); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if d.Len() != 5 {
		t.Errorf("Len() = %d, want 5", d.Len())
	}
}

func TestElementsByCategory(t *testing.T) {
	d, v := fixture(t)
	got := ids(d.Elements(scene.CategoryMechanicalEquipment))
	if diff := cmp.Diff([]scene.ElementID{2, 3, 4, 5}, got); diff != "" {
		t.Errorf("Elements mismatch (-want +got):\n%s", diff)
	}
	v.Restrict(2, 4)
	got = ids(d.ElementsInView(v, scene.CategoryMechanicalEquipment))
	if diff := cmp.Diff([]scene.ElementID{2, 4}, got); diff != "" {
		t.Errorf("ElementsInView mismatch (-want +got):\n%s", diff)
	}
}

func TestIntersectingInView(t *testing.T) {
	d, v := fixture(t)
	region := geom.AABB{Min: geom.Vec3{X: -20, Y: -20, Z: -20}, Max: geom.Vec3{X: 20, Y: 20, Z: 20}}

	got := ids(d.IntersectingInView(v, scene.CategoryMechanicalEquipment, region))
	if diff := cmp.Diff([]scene.ElementID{2, 4}, got); diff != "" {
		t.Errorf("IntersectingInView mismatch (-want +got):\n%s", diff)
	}

	touching := geom.AABB{Min: geom.Vec3{X: 101, Y: -1, Z: -1}, Max: geom.Vec3{X: 150, Y: 1, Z: 1}}
	got = ids(d.IntersectingInView(v, scene.CategoryMechanicalEquipment, touching))
	if diff := cmp.Diff([]scene.ElementID{3}, got); diff != "" {
		t.Errorf("touching box mismatch (-want +got):\n%s", diff)
	}

	v.Restrict(4)
	got = ids(d.IntersectingInView(v, scene.CategoryMechanicalEquipment, region))
	if diff := cmp.Diff([]scene.ElementID{4}, got); diff != "" {
		t.Errorf("restricted view mismatch (-want +got):\n%s", diff)
	}

	if got := d.IntersectingInView(v, scene.CategoryMechanicalEquipment, geom.AABB{Min: geom.Vec3{X: 1}}); got != nil {
		t.Errorf("inverted query box returned %v", ids(got))
	}
}

func TestHideRequiresTransaction(t *testing.T) {
	_, v := fixture(t)
	if err := v.HideElements([]scene.ElementID{2}); !errors.Is(err, scene.ErrNoTransaction) {
		t.Fatalf("HideElements outside tx = %v, want ErrNoTransaction", err)
	}
}

func TestTransactionCommitAppliesHides(t *testing.T) {
	d, v := fixture(t)
	tx, err := d.Begin("hide")
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if tx.ID() == "" {
		t.Error("transaction id should not be empty")
	}
	if err := v.HideElements([]scene.ElementID{2, 3}); err != nil {
		t.Fatalf("HideElements: %v", err)
	}
	if v.IsElementHidden(2) {
		t.Fatal("hide applied before commit")
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if diff := cmp.Diff([]scene.ElementID{2, 3}, v.HiddenElements()); diff != "" {
		t.Errorf("hidden mismatch (-want +got):\n%s", diff)
	}
	if err := tx.Commit(); !errors.Is(err, scene.ErrTransactionClosed) {
		t.Errorf("second Commit = %v, want ErrTransactionClosed", err)
	}
}

func TestTransactionRollbackDiscards(t *testing.T) {
	d, v := fixture(t)
	tx, _ := d.Begin("hide")
	_ = v.HideElements([]scene.ElementID{2})
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if v.IsElementHidden(2) {
		t.Error("rolled back hide was applied")
	}
	if _, err := d.Begin("again"); err != nil {
		t.Errorf("Begin after rollback: %v", err)
	}
}

func TestTransactionCommitHookFailure(t *testing.T) {
	d, v := fixture(t)
	boom := errors.New("commit refused")
	d.OnCommit = func(scene.Transaction) error { return boom }

	tx, _ := d.Begin("hide")
	_ = v.HideElements([]scene.ElementID{2})
	if err := tx.Commit(); !errors.Is(err, boom) {
		t.Fatalf("Commit = %v, want %v", err, boom)
	}
	if v.IsElementHidden(2) {
		t.Error("failed commit applied hide")
	}
}

func TestSingleOpenTransaction(t *testing.T) {
	d, _ := fixture(t)
	if _, err := d.Begin("one"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := d.Begin("two"); !errors.Is(err, scene.ErrTransactionOpen) {
		t.Errorf("second Begin = %v, want ErrTransactionOpen", err)
	}
}

func TestHideUnknownElement(t *testing.T) {
	d, v := fixture(t)
	tx, _ := d.Begin("hide")
	defer tx.Rollback()
	if err := v.HideElements([]scene.ElementID{99}); err == nil {
		t.Error("expected error hiding unknown element")
	}
}

func TestViewLookup(t *testing.T) {
	d, v := fixture(t)
	got, err := d.Lookup("Level 1")
	if err != nil || got != v {
		t.Fatalf("Lookup = %v, %v", got, err)
	}
	if _, err := d.Lookup("Roof"); !errors.Is(err, scene.ErrUnknownView) {
		t.Errorf("Lookup(Roof) = %v, want ErrUnknownView", err)
	}
	if _, err := d.NewView(2, "Level 1"); err == nil {
		t.Error("expected duplicate view name error")
	}
}

func TestViewCategoryState(t *testing.T) {
	_, v := fixture(t)
	v.HideCategory(scene.CategoryPipeCurves).LockCategory("generic-annotations")
	if !v.IsCategoryHidden(scene.CategoryPipeCurves) {
		t.Error("pipe category should be hidden")
	}
	if v.CanCategoryBeHidden("generic-annotations") {
		t.Error("locked category reported hideable")
	}
	if !v.CanCategoryBeHidden(scene.CategoryMechanicalEquipment) {
		t.Error("unlocked category reported not hideable")
	}
}
