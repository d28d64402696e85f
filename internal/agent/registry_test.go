package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"parlor/internal/memory"
)

// collectionStore records which retrieval collections were ensured.
type collectionStore struct {
	ensured []string
}

func (s *collectionStore) Query(context.Context, string, string, int) ([]memory.Result, error) {
	return nil, nil
}

func (s *collectionStore) Upsert(context.Context, string, string, string, map[string]string) error {
	return nil
}

func (s *collectionStore) EnsureCollection(collection string) error {
	s.ensured = append(s.ensured, collection)
	return nil
}

func testProfile(name string) Profile {
	p := DefaultProfile()
	p.Name = name
	p.Description = "a test persona"
	p.Model = "llama3:8b"
	p.SystemMessage = "You are " + name + "."

	return p
}

func TestSaveAndLoadProfile(t *testing.T) {
	registry := NewRegistry(t.TempDir())

	require.NoError(t, registry.SaveProfile(testProfile("Vega")))

	loaded, err := registry.LoadProfile("vega")
	require.NoError(t, err)
	require.Equal(t, "Vega", loaded.Name)
	require.Equal(t, "llama3:8b", loaded.Model)
	require.Equal(t, "<|im_start|>", loaded.StartToken)
}

func TestLoadProfileCaseNormalized(t *testing.T) {
	registry := NewRegistry(t.TempDir())

	require.NoError(t, registry.SaveProfile(testProfile("Vega")))

	_, err := registry.LoadProfile("VEGA")
	require.NoError(t, err)
}

func TestLoadProfileNotFound(t *testing.T) {
	registry := NewRegistry(t.TempDir())

	_, err := registry.LoadProfile("ghost")

	var notFound *ProfileNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "ghost", notFound.Name)
}

func TestLoadParamsDefaultsWhenMissing(t *testing.T) {
	registry := NewRegistry(t.TempDir())

	params, err := registry.LoadParams("vega")
	require.NoError(t, err)
	require.Equal(t, DefaultParams(), params)
}

func TestSaveAndLoadParams(t *testing.T) {
	registry := NewRegistry(t.TempDir())

	params := DefaultParams()
	params.Temperature = 0.9
	params.NumCtx = 8192

	require.NoError(t, registry.SaveParams("vega", params))

	loaded, err := registry.LoadParams("Vega")
	require.NoError(t, err)
	require.InDelta(t, 0.9, loaded.Temperature, 1e-9)
	require.Equal(t, 8192, loaded.NumCtx)
}

func TestRegistryListing(t *testing.T) {
	registry := NewRegistry(t.TempDir())

	require.NoError(t, registry.PutEntry(Entry{Name: "Vega", Description: "first", Model: "llama3"}))
	require.NoError(t, registry.PutEntry(Entry{Name: "orion", Description: "second", Model: "mistral"}))
	require.NoError(t, registry.PutEntry(Entry{Name: "vega", Description: "replaced", Model: "llama3"}))

	entries, err := registry.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "vega", entries[0].Name)
	require.Equal(t, "replaced", entries[0].Description)
}

func TestScaffold(t *testing.T) {
	dataDir := t.TempDir()
	registry := NewRegistry(dataDir)

	templatesDir := filepath.Join(dataDir, "agent-templates")
	require.NoError(t, os.MkdirAll(templatesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "notes.md"), []byte("# notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "skip.bin"), []byte{0}, 0o644))

	store := &collectionStore{}
	require.NoError(t, registry.Scaffold(testProfile("Vega"), DefaultParams(), templatesDir, store, "Sam"))

	agentDir := filepath.Join(dataDir, "agents", "vega")
	for _, name := range []string{"profile.toml", "params.toml", "notes.md", "fine-tuning"} {
		_, err := os.Stat(filepath.Join(agentDir, name))
		require.NoError(t, err, name)
	}

	_, err := os.Stat(filepath.Join(agentDir, "skip.bin"))
	require.True(t, errors.Is(err, os.ErrNotExist))

	entries, err := registry.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// the new agent's memory of its counterpart is ready before the first chat
	require.Equal(t, []string{"vega-sam"}, store.ensured)

	require.Error(t, registry.Scaffold(testProfile("vega"), DefaultParams(), templatesDir, nil, ""))
	require.Len(t, store.ensured, 1)
}

func TestLoadAgentAggregate(t *testing.T) {
	registry := NewRegistry(t.TempDir())
	require.NoError(t, registry.SaveProfile(testProfile("Vega")))

	ag, err := Load(registry, "vega", 4)
	require.NoError(t, err)
	require.Equal(t, "Vega", ag.Profile.Name)
	require.Equal(t, 4, ag.Cache.Capacity())
	require.Equal(t, "vega-operator", ag.Collection("Operator"))
}
