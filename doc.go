// Package pared provides projected reference-counted handles: shared
// ownership of one allocation combined with views onto any sub-object
// reachable from it.
//
// A handle pairs an owner - a type-erased strong reference that keeps the
// allocation alive - with a view addressing the part of the payload the
// handle exposes. ProjectParc and ProjectPrc derive new views (a struct
// field, a slice, an interface) without copying the payload; all handles
// derived from one origin alias the same storage and share one pair of
// strong/weak counts.
//
// Two handle families exist. Parc uses atomic counts and may be shared
// across goroutines. Prc uses plain counts and must stay on a single
// goroutine, along with everything derived from it.
package pared
