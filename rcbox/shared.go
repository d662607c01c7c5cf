package rcbox

import "sync/atomic"

// Shared is the cross-goroutine counterpart of Box: the same layout with
// lock-free atomic counters. All operations are safe to call concurrently
// for the same cell.
type Shared[T any] struct {
	strong  atomic.Int64
	weak    atomic.Int64
	cleanup func(*T)
	value   T
}

// NewShared returns a cell with one strong reference to value. If cleanup is
// not nil it runs exactly once, on the goroutine whose DecStrong brings the
// strong count to zero.
func NewShared[T any](value T, cleanup func(*T)) *Shared[T] {
	s := &Shared[T]{
		cleanup: cleanup,
		value:   value,
	}

	s.strong.Store(1)
	s.weak.Store(1)

	return s
}

// Value returns a pointer to the payload. The pointer stays valid for the
// lifetime of the cell, but the payload it addresses is zeroed once the
// strong count reaches zero.
func (s *Shared[T]) Value() *T {
	return &s.value
}

func (s *Shared[T]) IncStrong() {
	if s.strong.Add(1) <= 1 {
		panic("rcbox: IncStrong on a cell whose payload is already gone")
	}
}

func (s *Shared[T]) DecStrong() {
	switch n := s.strong.Add(-1); {
	case n == 0:
		// we were the last strong reference. no TryIncStrong can succeed
		// anymore, so the payload is ours to tear down.
		s.dropValue()
		s.DecWeak()

	case n < 0:
		panic("rcbox: DecStrong without a matching strong reference")
	}
}

// TryIncStrong acquires a new strong reference if the payload is still
// alive. The increment and the liveness check are a single compare-and-swap,
// there is no window in which the count can be observed nonzero, drop to
// zero and free the payload, and then be incremented. Once the strong count
// has reached zero TryIncStrong fails forever.
func (s *Shared[T]) TryIncStrong() bool {
	for {
		n := s.strong.Load()
		if n == 0 {
			return false
		}

		if s.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (s *Shared[T]) IncWeak() {
	if s.weak.Add(1) <= 1 {
		panic("rcbox: IncWeak on a dead cell")
	}
}

func (s *Shared[T]) DecWeak() {
	if s.weak.Add(-1) < 0 {
		panic("rcbox: DecWeak without a matching weak reference")
	}
}

func (s *Shared[T]) StrongCount() int {
	return int(s.strong.Load())
}

// WeakCount returns the number of weak references, not counting the one the
// strong set holds. Once the payload is gone it returns 0, however many weak
// handles still exist.
func (s *Shared[T]) WeakCount() int {
	if s.strong.Load() == 0 {
		return 0
	}

	return int(s.weak.Load() - 1)
}

func (s *Shared[T]) dropValue() {
	if s.cleanup != nil {
		cleanup := s.cleanup
		s.cleanup = nil
		cleanup(&s.value)
	}

	var zero T
	s.value = zero
}
