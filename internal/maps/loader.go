package maps

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader handles loading maps from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new map loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all map files.
// Invalid files are skipped. Returns maps sorted by ID.
func (l *Loader) LoadAll() ([]Map, error) {
	var result []Map

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(filepath.Ext(path)) {
			return nil
		}

		m, err := l.LoadFile(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		result = append(result, m)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// LoadFile loads a single map file.
func (l *Loader) LoadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return Map{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	m.FilePath = path
	return m, nil
}

// LoadByID loads a specific map by ID.
func (l *Loader) LoadByID(id string) (Map, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Map{}, err
	}
	for _, m := range all {
		if m.ID == id {
			return m, nil
		}
	}
	return Map{}, fmt.Errorf("map not found: %s", id)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
