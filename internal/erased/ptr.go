package erased

import (
	"unsafe"

	// The erased cell addresses held in Ptr values are only valid as long as
	// the heap does not move objects around.
	_ "go4.org/unsafe/assume-no-moving-gc"
)

// Ptr is the type-erased address of a reference-counted cell. It carries no
// behavior and is never interpreted except by the lifecycle table it was
// paired with at construction; erasePtr and unerasePtr are the only places
// where the reinterpretation happens.
type Ptr struct {
	addr unsafe.Pointer
}

func erasePtr[Cell any](cell *Cell) Ptr {
	return Ptr{addr: unsafe.Pointer(cell)}
}

func unerasePtr[Cell any](ptr Ptr) *Cell {
	return (*Cell)(ptr.addr)
}
