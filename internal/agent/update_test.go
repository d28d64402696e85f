package agent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileFieldsOrdered(t *testing.T) {
	p := testProfile("Vega")

	fields := ProfileFields(p)
	require.Equal(t, "name", fields[0].Name)
	require.Equal(t, "Vega", fields[0].Value)
	require.Equal(t, "model", fields[2].Name)
	require.Equal(t, "llama3:8b", fields[2].Value)
}

func TestApplyProfileOverrides(t *testing.T) {
	p := testProfile("Vega")

	updated, err := ApplyProfileOverrides(p, map[string]string{
		"description":     "updated persona",
		"assistant_focus": "ship the release",
	})
	require.NoError(t, err)
	require.Equal(t, "updated persona", updated.Description)
	require.Equal(t, "ship the release", updated.AssistantFocus)

	// old record untouched
	require.Equal(t, "a test persona", p.Description)
}

func TestApplyProfileOverridesUnknownField(t *testing.T) {
	_, err := ApplyProfileOverrides(testProfile("Vega"), map[string]string{"voice": "low"})
	require.Error(t, err)
}

func TestApplyParamsOverrides(t *testing.T) {
	params, err := ApplyParamsOverrides(DefaultParams(), map[string]string{
		"temperature": "0.8",
		"num_ctx":     "2048",
	})
	require.NoError(t, err)
	require.InDelta(t, 0.8, params.Temperature, 1e-9)
	require.Equal(t, 2048, params.NumCtx)
}

func TestApplyParamsOverridesBadValue(t *testing.T) {
	_, err := ApplyParamsOverrides(DefaultParams(), map[string]string{"num_ctx": "many"})
	require.Error(t, err)
}
