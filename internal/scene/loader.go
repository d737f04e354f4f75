package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader finds scene files under a directory.
type Loader struct {
	Root string
}

// NewLoader creates a loader for root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively loads every scene file. Invalid files are skipped.
// Scenes are sorted by ID.
func (l *Loader) LoadAll() ([]*Scene, error) {
	var scenes []*Scene

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsSceneFile(path) {
			return nil
		}
		s, err := Load(path)
		if err != nil {
			// Skip invalid files
			return nil
		}
		scenes = append(scenes, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID() < scenes[j].ID()
	})
	return scenes, nil
}

// LoadByID loads the scene with the given id.
func (l *Loader) LoadByID(id string) (*Scene, error) {
	scenes, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, s := range scenes {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("scene not found: %s", id)
}

// ListIDs returns all scene ids in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	scenes, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(scenes))
	for i, s := range scenes {
		ids[i] = s.ID()
	}
	return ids, nil
}

// IsSceneFile reports whether path has a scene file extension.
func IsSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
