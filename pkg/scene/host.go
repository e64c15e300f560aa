package scene

import (
	"errors"

	"github.com/chazu/hangerlink/pkg/geom"
)

var (
	// ErrNoTransaction is returned when a mutation runs outside a transaction.
	ErrNoTransaction = errors.New("scene: mutation requires an open transaction")

	// ErrTransactionClosed is returned when a finished transaction is reused.
	ErrTransactionClosed = errors.New("scene: transaction already closed")

	// ErrTransactionOpen is returned when a second transaction is started.
	ErrTransactionOpen = errors.New("scene: another transaction is open")

	// ErrUnknownView is returned when a view cannot be resolved.
	ErrUnknownView = errors.New("scene: unknown view")
)

// ViewID identifies a view.
type ViewID int64

// Document is the queryable element store of a host.
type Document interface {
	// Element returns the element with the given id.
	Element(id ElementID) (*Element, bool)

	// Elements enumerates every element of category c in the document.
	Elements(c Category) []*Element

	// ElementsInView enumerates elements of category c that belong to v.
	ElementsInView(v View, c Category) []*Element

	// IntersectingInView enumerates elements of category c in v whose
	// bounding box may intersect box. Results are a superset of the exact
	// answer and must not be used as a membership test.
	IntersectingInView(v View, c Category, box geom.AABB) []*Element

	// Begin opens a scoped transaction.
	Begin(name string) (Transaction, error)
}

// View is a per-view visibility context.
type View interface {
	ID() ViewID
	Name() string
	IsElementHidden(id ElementID) bool
	IsCategoryHidden(c Category) bool
	CanCategoryBeHidden(c Category) bool
	Filters() []FilterBinding

	// HideElements hides ids in this view. It must run inside an open
	// transaction of the owning document.
	HideElements(ids []ElementID) error
}

// Transaction scopes a batch of mutations.
type Transaction interface {
	ID() string
	Name() string
	Commit() error
	Rollback() error
}
