package pared

// ProjectParc derives a new handle from p whose view is whatever project
// returns for p's current view: a field, a slice of the payload, an
// interface over part of it. The new handle clones p's owner, so the
// original allocation stays alive as long as either handle does, and both
// views alias the same storage - projection never copies the payload.
//
// project runs once, here; the view it returns is fixed for the life of the
// new handle and never recomputed. project must not retain the reference it
// receives beyond the call.
//
// Projecting an already projected handle flattens: the new view is computed
// from the current view's referent and the new handle shares the original
// owner. No chain of owners accumulates.
func ProjectParc[T, V any](p *Parc[T], project func(T) V) *Parc[V] {
	view := project(p.View())

	return &Parc[V]{owner: p.owner.Clone(), view: view}
}

// ProjectPrc is ProjectParc for the single-goroutine handle family.
func ProjectPrc[T, V any](p *Prc[T], project func(T) V) *Prc[V] {
	view := project(p.View())

	return &Prc[V]{owner: p.owner.Clone(), view: view}
}
