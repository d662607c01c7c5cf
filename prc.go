package pared

import (
	"github.com/hanatsumi/pared/internal/erased"
	"github.com/hanatsumi/pared/rcbox"
)

// Prc is the single-goroutine counterpart of Parc: the same owner-plus-view
// pairing over plain instead of atomic reference counts. A Prc, its clones,
// its projections and its weak handles must all stay on the goroutine that
// created the first one; nothing inside locks.
type Prc[V any] struct {
	_     noCopy
	owner erased.Rc
	view  V
}

// NewPrc allocates a cell holding value and returns a handle viewing the
// whole payload.
func NewPrc[T any](value T) *Prc[*T] {
	return NewPrcCleanup[T](value, nil)
}

// NewPrcCleanup is NewPrc with a destructor: cleanup runs exactly once, when
// the last strong handle is released.
func NewPrcCleanup[T any](value T, cleanup func(*T)) *Prc[*T] {
	box := rcbox.NewBox(value, cleanup)

	return &Prc[*T]{
		owner: erased.NewRc(box),
		view:  box.Value(),
	}
}

func (p *Prc[V]) View() V {
	if p.owner == (erased.Rc{}) {
		panic("pared: View of a released handle")
	}

	return p.view
}

func (p *Prc[V]) Clone() *Prc[V] {
	if p.owner == (erased.Rc{}) {
		panic("pared: Clone of a released handle")
	}

	return &Prc[V]{owner: p.owner.Clone(), view: p.view}
}

// Release gives up this handle's strong reference. The handle releasing the
// last one triggers the cleanup. Release is idempotent; any other use of a
// released handle panics.
func (p *Prc[V]) Release() {
	if p.owner == (erased.Rc{}) {
		return
	}

	owner := p.owner
	p.owner = erased.Rc{}
	owner.Drop()
}

// Downgrade returns a weak handle caching the current view.
func (p *Prc[V]) Downgrade() *WeakPrc[V] {
	if p.owner == (erased.Rc{}) {
		panic("pared: Downgrade of a released handle")
	}

	return &WeakPrc[V]{owner: p.owner.Downgrade(), view: p.view}
}

func (p *Prc[V]) StrongCount() int {
	return p.owner.StrongCount()
}

func (p *Prc[V]) WeakCount() int {
	return p.owner.WeakCount()
}

func (p *Prc[V]) String() string {
	return formatView(p.view)
}

// WeakPrc observes the owner of a Prc plus the view that was current when
// Downgrade ran.
type WeakPrc[V any] struct {
	_     noCopy
	owner erased.RcWeak
	view  V
}

// Upgrade returns a strong handle over the cached view if the payload is
// still alive. False is the expected answer once the last strong handle has
// been released, not an error.
func (w *WeakPrc[V]) Upgrade() (*Prc[V], bool) {
	owner, ok := w.owner.Upgrade()
	if !ok {
		return nil, false
	}

	return &Prc[V]{owner: owner, view: w.view}, true
}

func (w *WeakPrc[V]) Clone() *WeakPrc[V] {
	if w.owner == (erased.RcWeak{}) {
		panic("pared: Clone of a released handle")
	}

	return &WeakPrc[V]{owner: w.owner.Clone(), view: w.view}
}

// Release gives up this handle's weak reference. Idempotent.
func (w *WeakPrc[V]) Release() {
	if w.owner == (erased.RcWeak{}) {
		return
	}

	owner := w.owner
	w.owner = erased.RcWeak{}
	owner.Drop()
}

func (w *WeakPrc[V]) StrongCount() int {
	return w.owner.StrongCount()
}

func (w *WeakPrc[V]) WeakCount() int {
	return w.owner.WeakCount()
}
