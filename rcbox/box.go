// Package rcbox provides the reference-counted cells the erased handles are
// built on: one allocation holding a strong count, a weak count and the
// payload itself.
package rcbox

// Box is a reference-counted cell holding a value of type T, for use from a
// single goroutine only. The strong set collectively owns one weak reference,
// released when the last strong reference goes away; this is what makes
// WeakCount read as "number of weak handles" rather than exposing the
// internal counter.
type Box[T any] struct {
	strong  int
	weak    int
	cleanup func(*T)
	value   T
}

// NewBox returns a box with one strong reference to value. If cleanup is not
// nil it runs exactly once, when the strong count reaches zero.
func NewBox[T any](value T, cleanup func(*T)) *Box[T] {
	return &Box[T]{
		strong:  1,
		weak:    1,
		cleanup: cleanup,
		value:   value,
	}
}

// Value returns a pointer to the payload. The pointer stays valid for the
// lifetime of the box, but the payload it addresses is zeroed once the
// strong count reaches zero.
func (b *Box[T]) Value() *T {
	return &b.value
}

func (b *Box[T]) IncStrong() {
	if b.strong == 0 {
		panic("rcbox: IncStrong on a box whose payload is already gone")
	}

	b.strong++
}

func (b *Box[T]) DecStrong() {
	if b.strong == 0 {
		panic("rcbox: DecStrong without a matching strong reference")
	}

	b.strong--
	if b.strong == 0 {
		b.dropValue()
		b.DecWeak()
	}
}

// TryIncStrong acquires a new strong reference if the payload is still
// alive. It reports whether it did; once the strong count has reached zero
// it fails forever.
func (b *Box[T]) TryIncStrong() bool {
	if b.strong == 0 {
		return false
	}

	b.strong++
	return true
}

func (b *Box[T]) IncWeak() {
	b.weak++
}

func (b *Box[T]) DecWeak() {
	if b.weak == 0 {
		panic("rcbox: DecWeak without a matching weak reference")
	}

	b.weak--
}

func (b *Box[T]) StrongCount() int {
	return b.strong
}

// WeakCount returns the number of weak references, not counting the one the
// strong set holds. Once the payload is gone it returns 0, however many weak
// handles still exist.
func (b *Box[T]) WeakCount() int {
	if b.strong == 0 {
		return 0
	}

	return b.weak - 1
}

func (b *Box[T]) dropValue() {
	if b.cleanup != nil {
		cleanup := b.cleanup
		b.cleanup = nil
		cleanup(&b.value)
	}

	// release whatever the payload was pinning
	var zero T
	b.value = zero
}
