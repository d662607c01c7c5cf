package pared

import (
	"fmt"
	"reflect"
)

// Equal reports whether the values addressed by the two views compare equal.
// It is defined purely over the views; the owners play no part. Works for
// any handle kind whose view is a pointer to a comparable type.
func Equal[T comparable](a, b interface{ View() *T }) bool {
	return *a.View() == *b.View()
}

// EqualFunc compares the two views with eq. Each operand's view is passed to
// eq exactly once, so comparisons with observable side effects see each
// operand addressed once per call - including when a and b are the same
// handle.
func EqualFunc[V any](a, b interface{ View() V }, eq func(V, V) bool) bool {
	return eq(a.View(), b.View())
}

// CompareFunc orders the two views with cmp, following the usual
// negative/zero/positive convention. Like EqualFunc it hands each operand's
// view to cmp exactly once.
func CompareFunc[V any](a, b interface{ View() V }, cmp func(V, V) int) int {
	return cmp(a.View(), b.View())
}

// formatView renders the referent of a view, never the owner. Pointer views
// are dereferenced first so a handle formats like the value it exposes.
func formatView(view any) string {
	value := reflect.ValueOf(view)
	if value.Kind() == reflect.Pointer && !value.IsNil() {
		return fmt.Sprint(value.Elem().Interface())
	}

	return fmt.Sprint(view)
}
