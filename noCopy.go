package pared

// noCopy can be embedded to provide "go vet" linting when a type should
// not - but is - be copied. Copying a handle would alias its owner without
// adjusting the reference count; handles are duplicated via Clone only.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
