package cache

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"parlor/internal/core"
)

func turn(n int) core.Turn {
	label := strconv.Itoa(n)

	return core.NewTurn(
		core.NewMessage(core.RoleUser, "user", "request "+label),
		core.NewMessage(core.RoleAssistant, "agent", "response "+label),
	)
}

func TestAddNeverExceedsCapacity(t *testing.T) {
	c := New(5)

	for i := 0; i < 50; i++ {
		c.Add(turn(i))
		require.LessOrEqual(t, c.Len(), 5)
	}

	recent := c.Recent()
	require.Len(t, recent, 5)

	for i, tr := range recent {
		require.Equal(t, "request "+strconv.Itoa(45+i), tr.Request.Content)
	}
}

func TestFIFOEviction(t *testing.T) {
	c := New(2)

	t1, t2, t3 := turn(1), turn(2), turn(3)
	c.Add(t1)
	c.Add(t2)
	c.Add(t3)

	recent := c.Recent()
	require.Len(t, recent, 2)
	require.Equal(t, t2.ID, recent[0].ID)
	require.Equal(t, t3.ID, recent[1].ID)
}

func TestRecentIsSnapshot(t *testing.T) {
	c := New(3)
	c.Add(turn(1))
	c.Add(turn(2))

	snapshot := c.Recent()
	c.Add(turn(3))
	c.Add(turn(4))

	require.Len(t, snapshot, 2)
	require.Equal(t, "request 1", snapshot[0].Request.Content)
	require.Equal(t, "request 2", snapshot[1].Request.Content)
}

func TestZeroCapacityFallsBackToDefault(t *testing.T) {
	c := New(0)
	require.Equal(t, DefaultCapacity, c.Capacity())
}
