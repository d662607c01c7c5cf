package erased

import (
	"reflect"

	"github.com/hanatsumi/pared/rcbox"
)

// Rc is a type-erased strong handle over a rcbox.Box. Like the box it wraps,
// it must stay on the goroutine that created it.
type Rc struct {
	ptr       Ptr
	lifecycle *Lifecycle
}

// NewRc erases box behind the lifecycle table of its payload type. The box
// must carry one strong reference for the new handle; the handle takes
// ownership of it.
func NewRc[T any](box *rcbox.Box[T]) Rc {
	return Rc{
		ptr:       erasePtr(box),
		lifecycle: rcLifecycleOf[T](),
	}
}

func (rc Rc) Clone() Rc {
	rc.lifecycle.clone(rc.ptr)
	return rc
}

func (rc Rc) Drop() {
	rc.lifecycle.drop(rc.ptr)
}

func (rc Rc) Downgrade() RcWeak {
	return RcWeak{
		ptr:       rc.lifecycle.downgrade(rc.ptr),
		lifecycle: rc.lifecycle,
	}
}

func (rc Rc) StrongCount() int {
	return rc.lifecycle.strongCount(rc.ptr)
}

func (rc Rc) WeakCount() int {
	return rc.lifecycle.weakCount(rc.ptr)
}

// RcWeak observes the cell an Rc owns without keeping its payload alive.
type RcWeak struct {
	ptr       Ptr
	lifecycle *Lifecycle
}

func (w RcWeak) Clone() RcWeak {
	w.lifecycle.cloneWeak(w.ptr)
	return w
}

func (w RcWeak) Drop() {
	w.lifecycle.dropWeak(w.ptr)
}

// Upgrade acquires a new strong handle if the payload is still alive. A
// false result is the expected outcome once the last strong handle has been
// dropped, not an error.
func (w RcWeak) Upgrade() (Rc, bool) {
	ptr, ok := w.lifecycle.upgradeWeak(w.ptr)
	if !ok {
		return Rc{}, false
	}

	return Rc{ptr: ptr, lifecycle: w.lifecycle}, true
}

func (w RcWeak) StrongCount() int {
	return w.lifecycle.strongCountWeak(w.ptr)
}

func (w RcWeak) WeakCount() int {
	return w.lifecycle.weakCountWeak(w.ptr)
}

var rcTables tables

func init() {
	rcTables.init("rc")
}

func rcLifecycleOf[T any]() *Lifecycle {
	return rcTables.ensure(reflect.TypeOf((*T)(nil)).Elem(), makeRcLifecycle[T])
}

func makeRcLifecycle[T any]() *Lifecycle {
	box := unerasePtr[rcbox.Box[T]]

	return &Lifecycle{
		clone: func(ptr Ptr) {
			box(ptr).IncStrong()
		},
		drop: func(ptr Ptr) {
			box(ptr).DecStrong()
		},
		downgrade: func(ptr Ptr) Ptr {
			// strong and weak handles address the same cell, so the erased
			// pointer is reused as-is
			box(ptr).IncWeak()
			return ptr
		},
		strongCount: func(ptr Ptr) int {
			return box(ptr).StrongCount()
		},
		weakCount: func(ptr Ptr) int {
			return box(ptr).WeakCount()
		},

		cloneWeak: func(ptr Ptr) {
			box(ptr).IncWeak()
		},
		dropWeak: func(ptr Ptr) {
			box(ptr).DecWeak()
		},
		upgradeWeak: func(ptr Ptr) (Ptr, bool) {
			if !box(ptr).TryIncStrong() {
				return Ptr{}, false
			}

			return ptr, true
		},
		strongCountWeak: func(ptr Ptr) int {
			return box(ptr).StrongCount()
		},
		weakCountWeak: func(ptr Ptr) int {
			return box(ptr).WeakCount()
		},
	}
}
