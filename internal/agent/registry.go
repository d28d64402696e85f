package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	profileFile  = "profile.toml"
	paramsFile   = "params.toml"
	registryFile = "agents.toml"
)

// Registry persists agent records under <dataDir>/agents/<name>/ and keeps a
// top-level listing of every known agent.
type Registry struct {
	AgentsDir string
}

func NewRegistry(dataDir string) *Registry {
	return &Registry{AgentsDir: filepath.Join(dataDir, "agents")}
}

// Normalize maps an agent name onto its canonical case-normalized form.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Entry is one row of the registry listing.
type Entry struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Model       string `toml:"model"`
}

type registryDoc struct {
	Agents []Entry `toml:"agents"`
}

func (r *Registry) agentDir(name string) string {
	return filepath.Join(r.AgentsDir, Normalize(name))
}

func (r *Registry) profilePath(name string) string {
	return filepath.Join(r.agentDir(name), profileFile)
}

func (r *Registry) paramsPath(name string) string {
	return filepath.Join(r.agentDir(name), paramsFile)
}

func (r *Registry) registryPath() string {
	return filepath.Join(r.AgentsDir, registryFile)
}

// Exists reports whether the named agent has a persisted profile.
func (r *Registry) Exists(name string) bool {
	_, err := os.Stat(r.profilePath(name))
	return err == nil
}

// LoadProfile reads the named agent's instruction record.
func (r *Registry) LoadProfile(name string) (Profile, error) {
	data, err := os.ReadFile(r.profilePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, r.notFound(name)
		}
		return Profile{}, fmt.Errorf("read profile for %s: %w", name, err)
	}

	profile := DefaultProfile()
	if err := toml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("parse profile for %s: %w", name, err)
	}

	return profile, nil
}

// LoadParams reads the named agent's generation parameters, falling back to
// the defaults when no record exists yet.
func (r *Registry) LoadParams(name string) (Params, error) {
	data, err := os.ReadFile(r.paramsPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultParams(), nil
		}
		return Params{}, fmt.Errorf("read params for %s: %w", name, err)
	}

	params := DefaultParams()
	if err := toml.Unmarshal(data, &params); err != nil {
		return Params{}, fmt.Errorf("parse params for %s: %w", name, err)
	}

	return params, nil
}

// SaveProfile rewrites the full instruction record.
func (r *Registry) SaveProfile(profile Profile) error {
	if Normalize(profile.Name) == "" {
		return fmt.Errorf("profile has no name")
	}

	if err := os.MkdirAll(r.agentDir(profile.Name), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(profile)
	if err != nil {
		return err
	}

	return os.WriteFile(r.profilePath(profile.Name), data, 0o644)
}

// SaveParams rewrites the full parameter record.
func (r *Registry) SaveParams(name string, params Params) error {
	if err := os.MkdirAll(r.agentDir(name), 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(params)
	if err != nil {
		return err
	}

	return os.WriteFile(r.paramsPath(name), data, 0o644)
}

// List returns the registry listing of every known agent.
func (r *Registry) List() ([]Entry, error) {
	data, err := os.ReadFile(r.registryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read agent registry: %w", err)
	}

	var doc registryDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse agent registry: %w", err)
	}

	return doc.Agents, nil
}

// PutEntry adds or replaces the listing row for one agent.
func (r *Registry) PutEntry(entry Entry) error {
	entry.Name = Normalize(entry.Name)

	entries, err := r.List()
	if err != nil {
		return err
	}

	replaced := false
	for i, e := range entries {
		if e.Name == entry.Name {
			entries[i] = entry
			replaced = true
			break
		}
	}

	if !replaced {
		entries = append(entries, entry)
	}

	if err := os.MkdirAll(r.AgentsDir, 0o755); err != nil {
		return err
	}

	data, err := toml.Marshal(registryDoc{Agents: entries})
	if err != nil {
		return err
	}

	return os.WriteFile(r.registryPath(), data, 0o644)
}

func (r *Registry) notFound(name string) error {
	entries, _ := r.List()

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}

	return &ProfileNotFoundError{Name: Normalize(name), Available: names}
}

// ProfileNotFoundError reports a named agent with no persisted record.
type ProfileNotFoundError struct {
	Name      string
	Available []string
}

func (e *ProfileNotFoundError) Error() string {
	msg := "no profile for agent: " + e.Name
	if len(e.Available) > 0 {
		msg += "; known agents: " + strings.Join(e.Available, ", ")
	}

	return msg
}
