package maps

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"sync"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Info contains metadata about a map.
type Info struct {
	ID   string
	Name string
}

var (
	registered = make(map[string]Map)
	mu         sync.RWMutex
)

func init() {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		panic(fmt.Sprintf("maps: reading built-in maps: %v", err))
	}
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("builtin", e.Name()))
		if err != nil {
			panic(fmt.Sprintf("maps: reading %s: %v", e.Name(), err))
		}
		m, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("maps: built-in %s: %v", e.Name(), err))
		}
		Register(m)
	}
}

// Register adds a map to the registry.
// Panics if a map with the same ID is already registered.
func Register(m Map) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registered[m.ID]; exists {
		panic(fmt.Sprintf("maps: map %q already registered", m.ID))
	}
	registered[m.ID] = m
}

// List returns information about all registered maps, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(registered))
	for id, m := range registered {
		result = append(result, Info{ID: id, Name: m.Name})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns a registered map by its ID.
func Get(id string) (Map, error) {
	mu.RLock()
	defer mu.RUnlock()

	m, ok := registered[id]
	if !ok {
		return Map{}, fmt.Errorf("maps: unknown map %q", id)
	}
	return m, nil
}

// Exists checks if a map with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := registered[id]
	return ok
}

// Resolve looks a map up in the registry first, then in dir if one is given.
func Resolve(id, dir string) (Map, error) {
	if m, err := Get(id); err == nil {
		return m, nil
	}
	if dir == "" {
		return Map{}, fmt.Errorf("maps: unknown map %q", id)
	}
	return NewLoader(dir).LoadByID(id)
}
