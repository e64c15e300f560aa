// Package propagate hides the hangers attached to pipes that are hidden in
// a view, and extends selections of pipes with their hangers.
package propagate

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/chazu/hangerlink/pkg/association"
	"github.com/chazu/hangerlink/pkg/scene"
	"github.com/chazu/hangerlink/pkg/visibility"
)

const (
	// DefaultPadding enlarges the probe box used to prefilter candidates.
	DefaultPadding = 200.0

	// DefaultTransactionName labels the hide transaction.
	DefaultTransactionName = "Hide/Unhide hangers with pipes"
)

// State is the terminal state of a hide run.
type State int

const (
	StateNothingHidden State = iota
	StateElementsHidden
)

func (s State) String() string {
	switch s {
	case StateNothingHidden:
		return "nothing hidden"
	case StateElementsHidden:
		return "elements hidden"
	default:
		return "unknown"
	}
}

// Result describes one HideHangers run.
type Result struct {
	// Associated holds every hanger attached to a hidden pipe.
	Associated []scene.ElementID
	// Hidden holds the ids submitted for hiding.
	Hidden []scene.ElementID
	// HiddenPipes counts the host curves found hidden.
	HiddenPipes int
	State       State
	// TxID is the committed transaction id, empty when nothing was hidden.
	TxID string
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	HostCategory    scene.Category
	Padding         float64
	TransactionName string
	Logger          *log.Logger
}

// Engine ties visibility resolution to hanger classification.
type Engine struct {
	doc        scene.Document
	classifier *association.Classifier
	resolver   *visibility.Resolver
	logger     *log.Logger
	hostCat    scene.Category
	padding    float64
	txName     string
}

// New returns an engine over doc. A nil classifier selects the default
// kind table and thickness.
func New(doc scene.Document, c *association.Classifier, opts Options) *Engine {
	if c == nil {
		c = association.NewClassifier(nil, association.DefaultThickness)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.HostCategory == "" {
		opts.HostCategory = scene.CategoryPipeCurves
	}
	if opts.Padding == 0 {
		opts.Padding = DefaultPadding
	}
	if opts.TransactionName == "" {
		opts.TransactionName = DefaultTransactionName
	}
	return &Engine{
		doc:        doc,
		classifier: c,
		resolver:   visibility.NewResolver(doc, opts.HostCategory, opts.Logger),
		logger:     opts.Logger,
		hostCat:    opts.HostCategory,
		padding:    opts.Padding,
		txName:     opts.TransactionName,
	}
}

// Resolver returns the engine's visibility resolver.
func (en *Engine) Resolver() *visibility.Resolver { return en.resolver }

// Classifier returns the engine's classifier.
func (en *Engine) Classifier() *association.Classifier { return en.classifier }

// HideHangers hides, inside one transaction, every hanger attached to a
// pipe hidden in v. Errors raised while mutating the view are returned
// unchanged and the transaction is rolled back.
func (en *Engine) HideHangers(v scene.View) (*Result, error) {
	pipes := en.resolver.HiddenHostCurves(v)
	res := &Result{HiddenPipes: len(pipes), State: StateNothingHidden}

	var assoc []scene.ElementID
	for _, id := range pipes {
		pipe, ok := en.doc.Element(id)
		if !ok {
			continue
		}
		assoc = append(assoc, en.attached(v, pipe)...)
	}
	assoc = lo.Uniq(assoc)
	slices.Sort(assoc)
	res.Associated = assoc

	todo := lo.Filter(assoc, func(id scene.ElementID, _ int) bool {
		e, ok := en.doc.Element(id)
		if !ok || !v.CanCategoryBeHidden(e.Category) {
			return false
		}
		return !v.IsElementHidden(id)
	})

	if len(todo) == 0 {
		en.logger.Info("nothing to hide", "view", v.Name(), "pipes", len(pipes), "associated", len(assoc))
		return res, nil
	}

	tx, err := en.doc.Begin(en.txName)
	if err != nil {
		return res, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := v.HideElements(todo); err != nil {
		return res, err
	}
	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true

	res.Hidden = todo
	res.State = StateElementsHidden
	res.TxID = tx.ID()
	en.logger.Info("hid hangers", "view", v.Name(), "pipes", len(pipes), "hidden", len(todo), "tx", tx.ID())
	return res, nil
}

// attached returns the hangers of pipe found through the padded probe box.
func (en *Engine) attached(v scene.View, pipe *scene.Element) []scene.ElementID {
	region, ok := en.classifier.ProbeRegion(pipe, en.padding)
	if !ok {
		en.logger.Debug("pipe without geometry", "pipe", pipe.ID)
		return nil
	}
	candidates := en.doc.IntersectingInView(v, en.classifier.HangerCategory(), region)
	matched := lo.FilterMap(candidates, func(h *scene.Element, _ int) (scene.ElementID, bool) {
		return h.ID, en.classifier.Belongs(h, pipe)
	})
	en.logger.Debug("probed pipe", "pipe", pipe.ID, "candidates", len(candidates), "matched", len(matched))
	return matched
}

// HangersOnPipe returns every hanger in v attached to pipe, sorted by id.
// It runs the same padded query and membership test as HideHangers.
func (en *Engine) HangersOnPipe(v scene.View, pipe *scene.Element) []scene.ElementID {
	if pipe == nil {
		return nil
	}
	ids := en.attached(v, pipe)
	slices.Sort(ids)
	return ids
}

// AugmentSelection returns ids united with the hangers attached to every
// selected host curve, sorted by id. Unknown ids are kept as given.
func (en *Engine) AugmentSelection(v scene.View, ids []scene.ElementID) []scene.ElementID {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	for _, id := range ids {
		e, ok := en.doc.Element(id)
		if !ok || e.Category != en.hostCat {
			continue
		}
		out = append(out, en.HangersOnPipe(v, e)...)
	}
	out = lo.Uniq(out)
	slices.Sort(out)
	en.logger.Debug("augmented selection", "view", v.Name(), "in", len(ids), "out", len(out))
	return out
}
