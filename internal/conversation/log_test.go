package conversation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parlor/internal/core"
)

func TestStartAndAppend(t *testing.T) {
	service := NewService(t.TempDir())

	conv, err := service.Start("vega", true, "sam", false)
	require.NoError(t, err)
	require.Equal(t, "vega", conv.Record.Host)
	require.True(t, conv.Record.HostIsBot)
	require.False(t, conv.Record.GuestIsBot)

	for i := 0; i < 3; i++ {
		turn := core.NewTurn(
			core.NewMessage(core.RoleUser, "sam", "hello"),
			core.NewMessage(core.RoleAssistant, "vega", "hi"),
		)
		require.NoError(t, conv.Append(turn))
	}

	require.Equal(t, 3, conv.Turns())

	infos, err := service.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, conv.Record.ID, infos[0].Record.ID)
	require.Equal(t, 3, infos[0].TurnCount)
}

func TestListEmptyDir(t *testing.T) {
	service := NewService(t.TempDir())

	infos, err := service.List()
	require.NoError(t, err)
	require.Empty(t, infos)
}
