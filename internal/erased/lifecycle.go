package erased

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"
	"unsafe"
)

// Lifecycle is the per-payload-type table of operations a pair of erased
// handles dispatches through. Exactly one table exists per (payload type,
// counting variant); it is built at first use and afterwards only ever
// referenced by address.
//
// Every operation requires a Ptr produced by this table's own construction,
// clone or downgrade path. The handles enforce that pairing by never
// exposing a Ptr without the table it belongs to.
type Lifecycle struct {
	clone       func(Ptr)
	drop        func(Ptr)
	downgrade   func(Ptr) Ptr
	strongCount func(Ptr) int
	weakCount   func(Ptr) int

	cloneWeak       func(Ptr)
	dropWeak        func(Ptr)
	upgradeWeak     func(Ptr) (Ptr, bool)
	strongCountWeak func(Ptr) int
	weakCountWeak   func(Ptr) int
}

// tables is a lookup from the abi type pointer of a payload type to its
// lifecycle table. There is one instance per counting variant.
type tables struct {
	lookup atomic.Pointer[map[unsafe.Pointer]*Lifecycle]
	name   string
}

func (t *tables) init(name string) {
	t.name = name
	t.lookup.Store(&map[unsafe.Pointer]*Lifecycle{})
}

func (t *tables) ensure(payloadType reflect.Type, makeTable func() *Lifecycle) *Lifecycle {
	ptrToType := abiTypePointerTo(payloadType)

	for {
		previousTables := t.lookup.Load()
		if cached, ok := (*previousTables)[ptrToType]; ok {
			return cached
		}

		newTable := makeTable()

		newTables := maps.Clone(*previousTables)
		newTables[ptrToType] = newTable

		if t.lookup.CompareAndSwap(previousTables, &newTables) {
			slog.Debug(
				"New lifecycle table registered",
				slog.String("type", payloadType.String()),
				slog.String("variant", t.name),
			)

			return newTable
		}
	}
}

func abiTypePointerTo(t reflect.Type) unsafe.Pointer {
	type eface struct {
		typ, val unsafe.Pointer
	}

	// a reflect.Type is backed by an *rType whose first field is the abi.Type,
	// so the data word of the interface identifies the type uniquely
	return (*eface)(unsafe.Pointer(&t)).val
}
