package memory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/hangerlink/pkg/scene"
)

// Compile-time interface check.
var _ scene.Transaction = (*Tx)(nil)

// Tx stages view mutations until Commit.
type Tx struct {
	doc    *Document
	id     string
	name   string
	staged []stagedHide
	closed bool
}

type stagedHide struct {
	view *View
	ids  []scene.ElementID
}

// Begin implements scene.Document. Only one transaction may be open.
func (d *Document) Begin(name string) (scene.Transaction, error) {
	if d.tx != nil {
		return nil, fmt.Errorf("%w: %q", scene.ErrTransactionOpen, d.tx.name)
	}
	d.tx = &Tx{doc: d, id: uuid.NewString(), name: name}
	return d.tx, nil
}

func (tx *Tx) ID() string   { return tx.id }
func (tx *Tx) Name() string { return tx.name }

func (tx *Tx) stage(v *View, ids []scene.ElementID) error {
	if tx.closed {
		return scene.ErrTransactionClosed
	}
	if v.doc != tx.doc {
		return fmt.Errorf("memory: view %q belongs to another document", v.name)
	}
	for _, id := range ids {
		if _, ok := tx.doc.elements[id]; !ok {
			return fmt.Errorf("memory: cannot hide unknown element %s", id)
		}
	}
	tx.staged = append(tx.staged, stagedHide{view: v, ids: append([]scene.ElementID(nil), ids...)})
	return nil
}

// Commit applies staged hides. If the document's OnCommit hook fails the
// changes are discarded and the error is returned.
func (tx *Tx) Commit() error {
	if tx.closed {
		return scene.ErrTransactionClosed
	}
	defer tx.close()
	if hook := tx.doc.OnCommit; hook != nil {
		if err := hook(tx); err != nil {
			return err
		}
	}
	for _, s := range tx.staged {
		s.view.SetHidden(s.ids...)
	}
	return nil
}

// Rollback discards staged hides. Rolling back a closed transaction is a
// no-op so it can be deferred unconditionally.
func (tx *Tx) Rollback() error {
	if tx.closed {
		return nil
	}
	tx.close()
	return nil
}

func (tx *Tx) close() {
	tx.closed = true
	tx.staged = nil
	if tx.doc.tx == tx {
		tx.doc.tx = nil
	}
}
