package scenefile

import (
	"fmt"
	"os"

	"github.com/chazu/hangerlink/pkg/geom"
	"github.com/chazu/hangerlink/pkg/kernel"
	"github.com/chazu/hangerlink/pkg/kernel/sdfx"
	"github.com/chazu/hangerlink/pkg/rules"
	"github.com/chazu/hangerlink/pkg/scene"
	"github.com/chazu/hangerlink/pkg/scene/memory"
)

// Options configures loading. Zero values select defaults.
type Options struct {
	// Kernel builds solids for pipe and part descriptions.
	Kernel kernel.Kernel
	// Rules compiles rule-filter expressions.
	Rules *rules.Engine
	// HostCategory is the category whose elements must carry geometry.
	HostCategory scene.Category
	// Categories lists the categories considered known in addition to
	// HostCategory.
	Categories []scene.Category
}

func (o Options) withDefaults() Options {
	if o.Kernel == nil {
		o.Kernel = sdfx.New()
	}
	if o.Rules == nil {
		o.Rules = rules.NewEngine()
	}
	if o.HostCategory == "" {
		o.HostCategory = scene.CategoryPipeCurves
	}
	if o.Categories == nil {
		o.Categories = []scene.Category{scene.CategoryMechanicalEquipment}
	}
	return o
}

// Scene is a loaded scene file.
type Scene struct {
	Units    geom.Unit
	Doc      *memory.Document
	File     *File
	Warnings []Finding
}

// Load reads, validates and builds the scene at path.
func Load(path string, opts Options) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s, err := Build(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Build validates f and turns it into an in-memory document. Validation
// errors are returned combined; warnings are kept on the Scene.
func Build(f *File, opts Options) (*Scene, error) {
	opts = opts.withDefaults()
	v := newValidator(f, opts)
	v.run()
	if err := v.res.Err(); err != nil {
		return nil, err
	}

	units, _ := geom.ParseUnit(f.Units)
	s := &Scene{
		Units:    units,
		Doc:      memory.New(),
		File:     f,
		Warnings: v.res.Warnings,
	}
	for _, es := range f.Elements {
		if err := s.Doc.Add(buildElement(opts.Kernel, es)); err != nil {
			return nil, err
		}
	}
	var nextFilter scene.FilterID
	for vi, vs := range f.Views {
		view, err := s.Doc.NewView(scene.ViewID(vs.ID), vs.Name)
		if err != nil {
			return nil, err
		}
		view.SetHidden(elementIDs(vs.Hidden)...)
		for _, c := range vs.HiddenCategories {
			view.HideCategory(scene.Category(c))
		}
		for _, c := range vs.LockedCategories {
			view.LockCategory(scene.Category(c))
		}
		if vs.Members != nil {
			view.Restrict(elementIDs(vs.Members)...)
		}
		for fi, fs := range vs.Filters {
			flt := buildFilter(fs, v.compiled[ruleKey{vi, fi}])
			nextFilter++
			flt.ID = nextFilter
			view.AddFilter(flt, fs.Visible)
		}
	}
	return s, nil
}

func buildElement(k kernel.Kernel, es ElementSpec) *scene.Element {
	e := &scene.Element{
		ID:       scene.ElementID(es.ID),
		Category: scene.Category(es.Category),
		Name:     es.Name,
		TypeName: es.Type,
		Params:   es.Params,
	}

	var solid kernel.Solid
	if p := es.Pipe; p != nil {
		start, end := p.Start.vec(), p.End.vec()
		solid = k.Segment(start, end, p.Diameter/2)
		e.Axis = &geom.Segment{Start: start, End: end}
	}
	if len(es.Parts) > 0 && solid == nil {
		solids := make([]kernel.Solid, 0, len(es.Parts))
		for _, part := range es.Parts {
			solids = append(solids, buildPart(k, part))
		}
		solid = kernel.UnionAll(k, solids...)
	}

	switch {
	case es.Box != nil:
		bb := es.Box.aabb()
		e.Bounds = &bb
	case solid != nil:
		bb := solid.BoundingBox()
		e.Bounds = &bb
	}
	if es.ViewBox != nil {
		bb := es.ViewBox.aabb()
		e.ViewBounds = &bb
	}
	if es.Axis != nil {
		e.Axis = &geom.Segment{Start: es.Axis.Start.vec(), End: es.Axis.End.vec()}
	}
	return e
}

func buildPart(k kernel.Kernel, p PartSpec) kernel.Solid {
	size := p.Size.vec()
	s := k.Box(size.X, size.Y, size.Z)
	if r := p.Rotate.vec(); r != (geom.Vec3{}) {
		s = k.Rotate(s, r.X, r.Y, r.Z)
	}
	if at := p.At.vec(); at != (geom.Vec3{}) {
		s = k.Translate(s, at.X, at.Y, at.Z)
	}
	return s
}

func buildFilter(fs FilterSpec, expr *rules.Expr) *scene.Filter {
	f := &scene.Filter{Name: fs.Name}
	for _, c := range fs.Categories {
		f.Categories = append(f.Categories, scene.Category(c))
	}
	if fs.Rule != "" {
		f.Kind = scene.FilterRule
		f.Predicate = expr
		return f
	}
	f.Kind = scene.FilterSelection
	f.IDs = elementIDs(fs.IDs)
	return f
}

func elementIDs(in []int64) []scene.ElementID {
	out := make([]scene.ElementID, len(in))
	for i, id := range in {
		out[i] = scene.ElementID(id)
	}
	return out
}
