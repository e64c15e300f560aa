package scenefile

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"

	"github.com/chazu/hangerlink/pkg/geom"
	"github.com/chazu/hangerlink/pkg/rules"
	"github.com/chazu/hangerlink/pkg/scene"
)

// Severity indicates whether a finding blocks loading.
type Severity int

const (
	SeverityError   Severity = iota // blocks loading
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single validation finding.
type Finding struct {
	Element  scene.ElementID // zero if not about an element
	View     string          // view name, empty if not about a view
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	switch {
	case f.View != "":
		return fmt.Sprintf("[%s] view %q: %s", f.Severity, f.View, f.Message)
	case f.Element != 0:
		return fmt.Sprintf("[%s] element %s: %s", f.Severity, f.Element, f.Message)
	default:
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Err combines every blocking finding into one error, or returns nil.
func (r ValidationResult) Err() error {
	var err error
	for _, f := range r.Errors {
		err = multierr.Append(err, f)
	}
	return err
}

// validator runs the tiers over one file.
type validator struct {
	f        *File
	rules    *rules.Engine
	host     scene.Category
	known    map[scene.Category]bool
	ids      map[int64]bool
	compiled map[ruleKey]*rules.Expr
	res      ValidationResult
}

// ruleKey locates a filter inside the file.
type ruleKey struct {
	view, filter int
}

func newValidator(f *File, opts Options) *validator {
	v := &validator{
		f:        f,
		rules:    opts.Rules,
		host:     opts.HostCategory,
		known:    make(map[scene.Category]bool),
		ids:      make(map[int64]bool),
		compiled: make(map[ruleKey]*rules.Expr),
	}
	for _, c := range opts.Categories {
		v.known[c] = true
	}
	v.known[opts.HostCategory] = true
	for _, e := range f.Elements {
		v.ids[e.ID] = true
	}
	return v
}

func (v *validator) errorf(el int64, view, format string, args ...any) {
	v.res.Errors = append(v.res.Errors, Finding{
		Element: scene.ElementID(el), View: view, Message: fmt.Sprintf(format, args...), Severity: SeverityError,
	})
}

func (v *validator) warnf(el int64, view, format string, args ...any) {
	v.res.Warnings = append(v.res.Warnings, Finding{
		Element: scene.ElementID(el), View: view, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning,
	})
}

// Validate runs all tiers (structure, geometry, rules) and returns the
// findings. It never mutates f.
func Validate(f *File, opts Options) ValidationResult {
	opts = opts.withDefaults()
	v := newValidator(f, opts)
	v.run()
	return v.res
}

func (v *validator) run() {
	// Tier 1: structure.
	v.validateUnits()
	v.validateElements()
	v.validateViews()

	// Tier 2: geometry.
	for _, e := range v.f.Elements {
		v.validateGeometry(e)
	}

	// Tier 3: rule expressions.
	v.validateRules()
}

func (v *validator) validateUnits() {
	if _, err := geom.ParseUnit(v.f.Units); err != nil {
		v.errorf(0, "", "%v", err)
	}
}

func (v *validator) validateElements() {
	seen := make(map[int64]bool)
	for _, e := range v.f.Elements {
		if e.ID == 0 {
			v.errorf(0, "", "element id 0 is reserved")
		}
		if seen[e.ID] {
			v.errorf(e.ID, "", "duplicate element id")
		}
		seen[e.ID] = true

		switch {
		case e.Category == "":
			v.errorf(e.ID, "", "category is empty")
		case !v.known[scene.Category(e.Category)]:
			v.warnf(e.ID, "", "unknown category %q", e.Category)
		}
	}
}

// categoryInUse reports whether c is a known category or is used by any
// element of the file.
func (v *validator) categoryInUse(c string) bool {
	if v.known[scene.Category(c)] {
		return true
	}
	return slices.ContainsFunc(v.f.Elements, func(e ElementSpec) bool { return e.Category == c })
}

func (v *validator) validateViews() {
	ids := make(map[int64]bool)
	names := make(map[string]bool)
	for _, vs := range v.f.Views {
		name := vs.Name
		if name == "" {
			v.errorf(0, "", "view %d has no name", vs.ID)
			name = fmt.Sprintf("#%d", vs.ID)
		}
		if ids[vs.ID] {
			v.errorf(0, name, "duplicate view id %d", vs.ID)
		}
		if names[vs.Name] && vs.Name != "" {
			v.errorf(0, name, "duplicate view name")
		}
		ids[vs.ID] = true
		names[vs.Name] = true

		for _, id := range vs.Members {
			if !v.ids[id] {
				v.errorf(0, name, "member %d does not exist", id)
			}
		}
		for _, id := range vs.Hidden {
			if !v.ids[id] {
				v.errorf(0, name, "hidden element %d does not exist", id)
			}
		}
		for _, c := range vs.HiddenCategories {
			if !v.categoryInUse(c) {
				v.warnf(0, name, "hidden category %q is not used", c)
			}
		}
		for _, fs := range vs.Filters {
			v.validateFilter(name, fs)
		}
	}
}

func (v *validator) validateFilter(view string, fs FilterSpec) {
	label := fs.Name
	if label == "" {
		label = "(unnamed)"
		v.warnf(0, view, "filter has no name")
	}
	switch {
	case fs.Rule != "" && len(fs.IDs) > 0:
		v.errorf(0, view, "filter %s: rule and ids are mutually exclusive", label)
	case fs.Rule == "" && len(fs.IDs) == 0:
		v.errorf(0, view, "filter %s: needs a rule or ids", label)
	case fs.Rule != "" && len(fs.Categories) == 0:
		v.errorf(0, view, "filter %s: rule filter needs categories", label)
	}
	for _, c := range fs.Categories {
		if !v.categoryInUse(c) {
			v.errorf(0, view, "filter %s: unknown category %q", label, c)
		}
	}
	for _, id := range fs.IDs {
		if !v.ids[id] {
			v.errorf(0, view, "filter %s: element %d does not exist", label, id)
		}
	}
}

func (v *validator) validateGeometry(e ElementSpec) {
	checkPoint := func(what string, p Point) bool {
		if len(p) != 3 {
			v.errorf(e.ID, "", "%s needs 3 coordinates, got %d", what, len(p))
			return false
		}
		return true
	}
	checkBox := func(what string, b *BoxSpec) {
		if b == nil {
			return
		}
		okMin := checkPoint(what+".min", b.Min)
		okMax := checkPoint(what+".max", b.Max)
		if okMin && okMax && !b.aabb().Valid() {
			v.errorf(e.ID, "", "%s is inverted: %s", what, b.aabb())
		}
	}
	checkBox("box", e.Box)
	checkBox("view_box", e.ViewBox)

	if e.Axis != nil {
		if checkPoint("axis.start", e.Axis.Start) && checkPoint("axis.end", e.Axis.End) {
			if slices.Equal(e.Axis.Start, e.Axis.End) {
				v.warnf(e.ID, "", "axis has zero length")
			}
		}
	}
	if p := e.Pipe; p != nil {
		okStart := checkPoint("pipe.start", p.Start)
		okEnd := checkPoint("pipe.end", p.End)
		if okStart && okEnd && slices.Equal(p.Start, p.End) {
			v.errorf(e.ID, "", "pipe has zero length")
		}
		if p.Diameter <= 0 {
			v.errorf(e.ID, "", "pipe diameter must be positive, got %g", p.Diameter)
		}
	}
	for i, part := range e.Parts {
		if checkPoint(fmt.Sprintf("parts[%d].size", i), part.Size) {
			if part.Size[0] <= 0 || part.Size[1] <= 0 || part.Size[2] <= 0 {
				v.errorf(e.ID, "", "parts[%d].size must be positive, got %v", i, []float64(part.Size))
			}
		}
		if part.At != nil {
			checkPoint(fmt.Sprintf("parts[%d].at", i), part.At)
		}
		if part.Rotate != nil {
			checkPoint(fmt.Sprintf("parts[%d].rotate", i), part.Rotate)
		}
	}

	hasGeometry := e.Box != nil || e.ViewBox != nil || e.Pipe != nil || len(e.Parts) > 0
	isCurve := scene.Category(e.Category) == v.host
	switch {
	case !hasGeometry && isCurve:
		v.errorf(e.ID, "", "pipe has no geometry")
	case !hasGeometry:
		v.warnf(e.ID, "", "element has no geometry and is never associated")
	case isCurve && e.Pipe == nil && e.Axis == nil:
		v.warnf(e.ID, "", "pipe has no axis; clamps cannot be centred on it")
	}
}

func (v *validator) validateRules() {
	for vi, vs := range v.f.Views {
		for fi, fs := range vs.Filters {
			if fs.Rule == "" {
				continue
			}
			expr, evalErrs, err := v.rules.Compile(fs.Rule)
			switch {
			case err != nil:
				v.errorf(0, vs.Name, "filter %s: %v", fs.Name, err)
			case len(evalErrs) > 0:
				for _, ee := range evalErrs {
					v.errorf(0, vs.Name, "filter %s: %v", fs.Name, ee)
				}
			default:
				v.compiled[ruleKey{vi, fi}] = expr
			}
		}
	}
}
