package agent

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"parlor/internal/memory"
)

// templateExtensions are the file types copied from the templates directory
// into a new agent's directory.
var templateExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".toml": true,
	".yaml": true,
	".yml":  true,
}

// Scaffold creates the directory layout for a new agent, copies template
// files, persists both records, adds the registry entry, and pre-creates the
// agent's retrieval collection for the given counterpart so the first chat
// finds it ready. It refuses to overwrite an existing agent.
func (r *Registry) Scaffold(profile Profile, params Params, templatesDir string, store memory.Store, counterpart string) error {
	name := Normalize(profile.Name)
	if name == "" {
		return fmt.Errorf("agent name is required")
	}

	if r.Exists(name) {
		return fmt.Errorf("agent %s already exists", name)
	}

	dir := r.agentDir(name)

	if err := os.MkdirAll(filepath.Join(dir, "fine-tuning"), 0o755); err != nil {
		return fmt.Errorf("create agent directory: %w", err)
	}

	if templatesDir != "" {
		if err := copyTemplates(templatesDir, dir); err != nil {
			return fmt.Errorf("copy agent templates: %w", err)
		}
	}

	if err := r.SaveProfile(profile); err != nil {
		return err
	}

	if err := r.SaveParams(name, params); err != nil {
		return err
	}

	if err := r.PutEntry(Entry{
		Name:        name,
		Description: profile.Description,
		Model:       profile.Model,
	}); err != nil {
		return err
	}

	if store == nil {
		return nil
	}

	if err := store.EnsureCollection(memory.CollectionName(name, counterpart)); err != nil {
		return fmt.Errorf("prepare retrieval collection: %w", err)
	}

	return nil
}

func copyTemplates(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !templateExtensions[filepath.Ext(entry.Name())] {
			continue
		}

		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)

	return err
}
