package erased

import (
	"reflect"

	"github.com/hanatsumi/pared/rcbox"
)

// Arc is the cross-goroutine counterpart of Rc, erased over a rcbox.Shared
// cell. All operations are safe to call concurrently for handles sharing one
// cell.
type Arc struct {
	ptr       Ptr
	lifecycle *Lifecycle
}

// NewArc erases cell behind the lifecycle table of its payload type. The
// cell must carry one strong reference for the new handle; the handle takes
// ownership of it.
func NewArc[T any](cell *rcbox.Shared[T]) Arc {
	return Arc{
		ptr:       erasePtr(cell),
		lifecycle: arcLifecycleOf[T](),
	}
}

func (a Arc) Clone() Arc {
	a.lifecycle.clone(a.ptr)
	return a
}

func (a Arc) Drop() {
	a.lifecycle.drop(a.ptr)
}

func (a Arc) Downgrade() ArcWeak {
	return ArcWeak{
		ptr:       a.lifecycle.downgrade(a.ptr),
		lifecycle: a.lifecycle,
	}
}

func (a Arc) StrongCount() int {
	return a.lifecycle.strongCount(a.ptr)
}

func (a Arc) WeakCount() int {
	return a.lifecycle.weakCount(a.ptr)
}

// ArcWeak observes the cell an Arc owns without keeping its payload alive.
type ArcWeak struct {
	ptr       Ptr
	lifecycle *Lifecycle
}

func (w ArcWeak) Clone() ArcWeak {
	w.lifecycle.cloneWeak(w.ptr)
	return w
}

func (w ArcWeak) Drop() {
	w.lifecycle.dropWeak(w.ptr)
}

// Upgrade acquires a new strong handle if the payload is still alive. The
// liveness check and the increment are a single atomic operation; an upgrade
// racing against the drop of the last strong handle either wins a valid
// handle or fails cleanly. A false result is the expected outcome once the
// payload is gone, not an error.
func (w ArcWeak) Upgrade() (Arc, bool) {
	ptr, ok := w.lifecycle.upgradeWeak(w.ptr)
	if !ok {
		return Arc{}, false
	}

	return Arc{ptr: ptr, lifecycle: w.lifecycle}, true
}

func (w ArcWeak) StrongCount() int {
	return w.lifecycle.strongCountWeak(w.ptr)
}

func (w ArcWeak) WeakCount() int {
	return w.lifecycle.weakCountWeak(w.ptr)
}

var arcTables tables

func init() {
	arcTables.init("arc")
}

func arcLifecycleOf[T any]() *Lifecycle {
	return arcTables.ensure(reflect.TypeOf((*T)(nil)).Elem(), makeArcLifecycle[T])
}

func makeArcLifecycle[T any]() *Lifecycle {
	cell := unerasePtr[rcbox.Shared[T]]

	return &Lifecycle{
		clone: func(ptr Ptr) {
			cell(ptr).IncStrong()
		},
		drop: func(ptr Ptr) {
			cell(ptr).DecStrong()
		},
		downgrade: func(ptr Ptr) Ptr {
			cell(ptr).IncWeak()
			return ptr
		},
		strongCount: func(ptr Ptr) int {
			return cell(ptr).StrongCount()
		},
		weakCount: func(ptr Ptr) int {
			return cell(ptr).WeakCount()
		},

		cloneWeak: func(ptr Ptr) {
			cell(ptr).IncWeak()
		},
		dropWeak: func(ptr Ptr) {
			cell(ptr).DecWeak()
		},
		upgradeWeak: func(ptr Ptr) (Ptr, bool) {
			if !cell(ptr).TryIncStrong() {
				return Ptr{}, false
			}

			return ptr, true
		},
		strongCountWeak: func(ptr Ptr) int {
			return cell(ptr).StrongCount()
		},
		weakCountWeak: func(ptr Ptr) int {
			return cell(ptr).WeakCount()
		},
	}
}
