package pared

import (
	"github.com/hanatsumi/pared/internal/erased"
	"github.com/hanatsumi/pared/rcbox"
)

// Parc is a projected, atomically reference-counted handle. It pairs an
// owner - the erased strong reference that keeps an allocation alive - with
// a view: a value of type V addressing any sub-object reachable from that
// allocation. V is a view type: *T for the payload itself or one of its
// fields, []E for a slice of it, or an interface type for a polymorphic view
// of it. Both pointers are fixed at construction; only the reference counts
// underneath ever change.
//
// Handles sharing one owner may be used from different goroutines
// concurrently. Lifetime is the only thing the handle guards: mutating the
// payload through aliasing views needs whatever synchronization the payload
// itself calls for.
type Parc[V any] struct {
	_     noCopy
	owner erased.Arc
	view  V
}

// NewParc allocates a cell holding value and returns a handle viewing the
// whole payload.
func NewParc[T any](value T) *Parc[*T] {
	return NewParcCleanup[T](value, nil)
}

// NewParcCleanup is NewParc with a destructor: cleanup runs exactly once,
// on the goroutine that releases the last strong handle. The payload is
// zeroed afterwards so that it stops pinning whatever it referenced.
func NewParcCleanup[T any](value T, cleanup func(*T)) *Parc[*T] {
	cell := rcbox.NewShared(value, cleanup)

	return &Parc[*T]{
		owner: erased.NewArc(cell),
		view:  cell.Value(),
	}
}

// View returns the projected view. The value it addresses stays alive at
// least until Release.
func (p *Parc[V]) View() V {
	if p.owner == (erased.Arc{}) {
		panic("pared: View of a released handle")
	}

	return p.view
}

// Clone returns a new handle sharing the owner and the view.
func (p *Parc[V]) Clone() *Parc[V] {
	if p.owner == (erased.Arc{}) {
		panic("pared: Clone of a released handle")
	}

	return &Parc[V]{owner: p.owner.Clone(), view: p.view}
}

// Release gives up this handle's strong reference. The handle releasing the
// last one triggers the cleanup. Release is idempotent; any other use of a
// released handle panics.
func (p *Parc[V]) Release() {
	if p.owner == (erased.Arc{}) {
		return
	}

	owner := p.owner
	p.owner = erased.Arc{}
	owner.Drop()
}

// Downgrade returns a weak handle caching the current view. The weak handle
// does not keep the payload alive.
func (p *Parc[V]) Downgrade() *WeakParc[V] {
	if p.owner == (erased.Arc{}) {
		panic("pared: Downgrade of a released handle")
	}

	return &WeakParc[V]{owner: p.owner.Downgrade(), view: p.view}
}

func (p *Parc[V]) StrongCount() int {
	return p.owner.StrongCount()
}

func (p *Parc[V]) WeakCount() int {
	return p.owner.WeakCount()
}

func (p *Parc[V]) String() string {
	return formatView(p.view)
}

// WeakParc observes the owner of a Parc plus the view that was current when
// Downgrade ran. The cached view is only handed out again by a successful
// Upgrade; it is valid exactly then, because the freshly strengthened owner
// keeps the allocation it points into from going away.
type WeakParc[V any] struct {
	_     noCopy
	owner erased.ArcWeak
	view  V
}

// Upgrade returns a strong handle over the cached view if the payload is
// still alive. False is the expected answer once the last strong handle has
// been released, not an error.
func (w *WeakParc[V]) Upgrade() (*Parc[V], bool) {
	owner, ok := w.owner.Upgrade()
	if !ok {
		return nil, false
	}

	return &Parc[V]{owner: owner, view: w.view}, true
}

// Clone returns a new weak handle sharing the owner and the cached view.
func (w *WeakParc[V]) Clone() *WeakParc[V] {
	if w.owner == (erased.ArcWeak{}) {
		panic("pared: Clone of a released handle")
	}

	return &WeakParc[V]{owner: w.owner.Clone(), view: w.view}
}

// Release gives up this handle's weak reference. Idempotent.
func (w *WeakParc[V]) Release() {
	if w.owner == (erased.ArcWeak{}) {
		return
	}

	owner := w.owner
	w.owner = erased.ArcWeak{}
	owner.Drop()
}

func (w *WeakParc[V]) StrongCount() int {
	return w.owner.StrongCount()
}

// WeakCount returns the number of live weak handles, or 0 once the payload
// is gone, however many weak handles still exist.
func (w *WeakParc[V]) WeakCount() int {
	return w.owner.WeakCount()
}
