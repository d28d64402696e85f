package agent

import (
	"parlor/internal/cache"
	"parlor/internal/memory"
)

// Agent pairs a loaded profile and parameter record with the session's
// bounded conversation cache. The records stay immutable for the session;
// only the focus side-channel mutates the in-memory copy.
type Agent struct {
	Profile Profile
	Params  Params
	Cache   *cache.Cache
}

// Load reads the named agent's records and builds the session aggregate.
func Load(registry *Registry, name string, cacheCapacity int) (*Agent, error) {
	profile, err := registry.LoadProfile(name)
	if err != nil {
		return nil, err
	}

	params, err := registry.LoadParams(name)
	if err != nil {
		return nil, err
	}

	return &Agent{
		Profile: profile,
		Params:  params,
		Cache:   cache.New(cacheCapacity),
	}, nil
}

// Collection names the agent's memory collection for a given counterpart.
func (a *Agent) Collection(counterpart string) string {
	return memory.CollectionName(a.Profile.Name, counterpart)
}
