package pared

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParcSliceView(t *testing.T) {
	a := NewParc([3]uint32{3, 2, 1})
	b := ProjectParc(a, func(x *[3]uint32) []uint32 { return x[:] })

	require.Equal(t, []uint32{3, 2, 1}, b.View())

	weak := b.Downgrade()
	weak2 := weak.Clone()
	weak.Release()

	upgraded, ok := weak2.Upgrade()
	require.True(t, ok)
	require.Equal(t, []uint32{3, 2, 1}, upgraded.View())

	upgraded.Release()
	weak2.Release()
	b.Release()
	a.Release()
}

func TestParcInterfaceView(t *testing.T) {
	a := NewParc(42)
	view := ProjectParc(a, func(x *int) any { return x })

	weak := view.Downgrade()
	weak2 := weak.Clone()
	weak.Release()

	upgraded, ok := weak2.Upgrade()
	require.True(t, ok)
	require.Equal(t, 42, *upgraded.View().(*int))
	upgraded.Release()

	// dropping every strong handle kills the payload for good
	view.Release()
	a.Release()

	_, ok = weak2.Upgrade()
	require.False(t, ok)

	weak2.Release()
}

func TestParcProjectionToMember(t *testing.T) {
	type hasMembers struct {
		unused int
		a      int
	}

	parc := NewParc(hasMembers{unused: 64, a: 432})
	projected := ProjectParc(parc, func(s *hasMembers) *int { return &s.a })

	require.Equal(t, 432, *projected.View())

	// both handles alias the same storage, in both directions
	parc.View().a = 15
	require.Equal(t, 15, *projected.View())

	*projected.View() = 20
	require.Equal(t, 20, parc.View().a)

	projected.Release()
	parc.Release()
}

type greeting string

func (g greeting) String() string { return string(g) }

func TestParcProjectionOfStringer(t *testing.T) {
	type hasMembers struct {
		s greeting
	}

	parc := NewParc(hasMembers{s: "Hello!"})
	projected := ProjectParc(parc, func(s *hasMembers) fmt.Stringer { return &s.s })

	require.Equal(t, "Hello!", fmt.Sprint(projected))

	projected.Release()
	parc.Release()
}

func TestParcEqualNaN(t *testing.T) {
	x := NewParc(math.NaN())

	require.False(t, Equal[float64](x, x))

	x.Release()
}

func TestParcEqualFuncSeesEachOperandOnce(t *testing.T) {
	type countsDerefs struct {
		derefs int
	}

	eq := func(a, b *countsDerefs) bool {
		a.derefs++
		b.derefs++
		return true
	}

	x := NewParc(countsDerefs{})

	require.True(t, EqualFunc[*countsDerefs](x, x, eq))
	require.True(t, EqualFunc[*countsDerefs](x, x, eq))

	// two comparisons, each operand addressed exactly once per comparison
	require.Equal(t, 4, x.View().derefs)

	x.Release()
}

func TestParcCleanupRunsOnceInAnyReleaseOrder(t *testing.T) {
	for i0 := 0; i0 < 20; i0++ {
		var cleanedUp int

		handles := []*Parc[*int]{
			NewParcCleanup(42, func(*int) { cleanedUp++ }),
		}

		for i0 := 0; i0 < 5; i0++ {
			handles = append(handles, handles[0].Clone())
		}

		rand.Shuffle(len(handles), func(i, j int) {
			handles[i], handles[j] = handles[j], handles[i]
		})

		for _, handle := range handles[:len(handles)-1] {
			handle.Release()
		}
		require.Equal(t, 0, cleanedUp)

		handles[len(handles)-1].Release()
		require.Equal(t, 1, cleanedUp)
	}
}

func TestParcCounts(t *testing.T) {
	parc := NewParc(42)
	require.Equal(t, 1, parc.StrongCount())
	require.Equal(t, 0, parc.WeakCount())

	clone := parc.Clone()
	require.Equal(t, 2, parc.StrongCount())

	weak := parc.Downgrade()
	require.Equal(t, 2, weak.StrongCount())
	require.Equal(t, 1, weak.WeakCount())

	clone.Release()
	parc.Release()

	// the weak handle is still live, but with the payload gone the weak
	// count reads as zero
	require.Equal(t, 0, weak.StrongCount())
	require.Equal(t, 0, weak.WeakCount())

	weak.Release()
}

func TestParcReprojectionFlattens(t *testing.T) {
	type inner struct {
		value int
	}
	type outer struct {
		in inner
	}

	var cleanedUp int

	a := NewParcCleanup(outer{in: inner{value: 7}}, func(*outer) { cleanedUp++ })
	b := ProjectParc(a, func(o *outer) *inner { return &o.in })
	c := ProjectParc(b, func(i *inner) *int { return &i.value })

	// three handles, one owner, no chain
	require.Equal(t, 3, a.StrongCount())

	b.Release()
	a.Release()

	require.Equal(t, 1, c.StrongCount())
	require.Equal(t, 7, *c.View())
	require.Equal(t, 0, cleanedUp)

	c.Release()
	require.Equal(t, 1, cleanedUp)
}

func TestParcDowngradeUpgradeRoundtrip(t *testing.T) {
	type payload struct {
		values [3]int
	}

	parc := NewParc(payload{values: [3]int{3, 2, 1}})
	projected := ProjectParc(parc, func(p *payload) []int { return p.values[:] })
	weak := projected.Downgrade()

	// owner still alive: the reconstructed view matches the original
	upgraded, ok := weak.Upgrade()
	require.True(t, ok)
	require.Equal(t, projected.View(), upgraded.View())
	upgraded.Release()

	projected.Release()
	parc.Release()

	// owner fully dropped in between: upgrade yields nothing
	_, ok = weak.Upgrade()
	require.False(t, ok)

	weak.Release()
}

func TestParcReleaseIsIdempotent(t *testing.T) {
	parc := NewParc(1)
	parc.Release()
	parc.Release()

	require.Panics(t, func() { parc.View() })
	require.Panics(t, func() { parc.Clone() })
	require.Panics(t, func() { parc.Downgrade() })
}

func TestParcString(t *testing.T) {
	parc := NewParc(42)
	require.Equal(t, "42", parc.String())

	slice := ProjectParc(parc, func(x *int) []int { return []int{*x} })
	require.Equal(t, "[42]", slice.String())

	slice.Release()
	parc.Release()
}

// Goroutines race Upgrade against the release of the last strong handle.
// Every successful upgrade must observe the intact payload.
func TestParcConcurrentUpgradeStress(t *testing.T) {
	for i0 := 0; i0 < 100; i0++ {
		parc := NewParcCleanup(int64(0xABCD), func(v *int64) { *v = -1 })
		weak := parc.Downgrade()

		var wg sync.WaitGroup
		for i0 := 0; i0 < 4; i0++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for i0 := 0; i0 < 1000; i0++ {
					upgraded, ok := weak.Upgrade()
					if !ok {
						return
					}

					if *upgraded.View() != 0xABCD {
						t.Error("upgrade produced a handle to a dead payload")
					}

					upgraded.Release()
				}
			}()
		}

		parc.Release()
		wg.Wait()
		weak.Release()
	}
}

func BenchmarkParcCloneRelease(b *testing.B) {
	parc := NewParc(42)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		parc.Clone().Release()
	}

	parc.Release()
}

func BenchmarkParcUpgrade(b *testing.B) {
	parc := NewParc(42)
	weak := parc.Downgrade()

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		upgraded, _ := weak.Upgrade()
		upgraded.Release()
	}

	weak.Release()
	parc.Release()
}
