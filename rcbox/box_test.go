package rcbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxCleanupRunsOnceAfterLastDec(t *testing.T) {
	var cleanedUp int

	box := NewBox(42, func(v *int) {
		cleanedUp++
	})

	box.IncStrong()
	box.IncStrong()

	box.DecStrong()
	require.Equal(t, 0, cleanedUp)

	box.DecStrong()
	require.Equal(t, 0, cleanedUp)

	box.DecStrong()
	require.Equal(t, 1, cleanedUp)
}

func TestBoxZeroesPayloadOnDeath(t *testing.T) {
	box := NewBox("payload", nil)

	value := box.Value()
	require.Equal(t, "payload", *value)

	box.DecStrong()
	require.Equal(t, "", *value)
}

func TestBoxCounts(t *testing.T) {
	box := NewBox(42, nil)
	require.Equal(t, 1, box.StrongCount())
	require.Equal(t, 0, box.WeakCount())

	box.IncStrong()
	require.Equal(t, 2, box.StrongCount())

	box.IncWeak()
	require.Equal(t, 2, box.StrongCount())
	require.Equal(t, 1, box.WeakCount())

	box.DecStrong()
	box.DecStrong()

	// the payload is gone, the weak count reads as zero even though a weak
	// reference is still around
	require.Equal(t, 0, box.StrongCount())
	require.Equal(t, 0, box.WeakCount())
}

func TestBoxTryIncStrong(t *testing.T) {
	box := NewBox(42, nil)

	require.True(t, box.TryIncStrong())
	require.Equal(t, 2, box.StrongCount())

	box.DecStrong()
	box.DecStrong()

	// a dead box stays dead
	require.False(t, box.TryIncStrong())
	require.False(t, box.TryIncStrong())
}

func TestBoxPanicsOnUnbalancedDec(t *testing.T) {
	box := NewBox(42, nil)
	box.DecStrong()

	require.Panics(t, func() { box.DecStrong() })
	require.Panics(t, func() { box.IncStrong() })
}
