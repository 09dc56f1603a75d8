// Package libstore persists serialized libraries on disk, with an index
// of saved summaries.
package libstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"leangraph/internal/decl"
)

const (
	librariesDir = "libraries"
	indexFile    = "index.json"
)

// Summary describes one stored library.
type Summary struct {
	Name         string    `json:"name"`
	Declarations int       `json:"declarations"`
	SavedAt      time.Time `json:"saved_at"`
}

// Index lists every stored library.
type Index struct {
	Libraries []Summary `json:"libraries"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store holds serialized libraries under a root directory. Libraries
// round-trip with full fidelity: Load returns a library equal to the one
// passed to Save, declaration by declaration.
type Store struct {
	mu      sync.RWMutex
	rootDir string
	index   *Index
}

// NewStore creates or opens a library store at the given directory.
func NewStore(rootDir string) (*Store, error) {
	s := &Store{rootDir: rootDir}

	if err := os.MkdirAll(filepath.Join(rootDir, librariesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	if err := s.loadIndex(); err != nil {
		s.index = &Index{
			Libraries: []Summary{},
			UpdatedAt: time.Now(),
		}
	}

	return s, nil
}

// Save persists a library, replacing any previous version of the same name.
func (s *Store) Save(lib *decl.Library) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := decl.Marshal(lib)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.libPath(lib.Name), data, 0o644); err != nil {
		return fmt.Errorf("write library %s: %w", lib.Name, err)
	}

	summary := Summary{
		Name:         lib.Name,
		Declarations: lib.Len(),
		SavedAt:      time.Now(),
	}
	replaced := false
	for i, existing := range s.index.Libraries {
		if existing.Name == lib.Name {
			s.index.Libraries[i] = summary
			replaced = true
			break
		}
	}
	if !replaced {
		s.index.Libraries = append(s.index.Libraries, summary)
	}
	s.index.UpdatedAt = time.Now()
	return s.saveIndex()
}

// Load retrieves a library by name.
func (s *Store) Load(name string) (*decl.Library, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.libPath(name))
	if err != nil {
		return nil, fmt.Errorf("read library %s: %w", name, err)
	}
	lib, err := decl.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("library %s: %w", name, err)
	}
	return lib, nil
}

// List returns all library summaries, newest first.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Summary, len(s.index.Libraries))
	copy(result, s.index.Libraries)

	sort.Slice(result, func(i, j int) bool {
		return result[i].SavedAt.After(result[j].SavedAt)
	})

	return result
}

// Delete removes a stored library.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.libPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove library %s: %w", name, err)
	}

	filtered := s.index.Libraries[:0]
	for _, summary := range s.index.Libraries {
		if summary.Name != name {
			filtered = append(filtered, summary)
		}
	}
	s.index.Libraries = filtered
	s.index.UpdatedAt = time.Now()

	return s.saveIndex()
}

// libPath maps a library name to its payload file. Path separators and
// drive characters in names flatten to underscores.
func (s *Store) libPath(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
	return filepath.Join(s.rootDir, librariesDir, safe+".yaml")
}

func (s *Store) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(s.rootDir, indexFile))
	if err != nil {
		return err
	}
	s.index = &Index{}
	return json.Unmarshal(data, s.index)
}

func (s *Store) saveIndex() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.rootDir, indexFile), data, 0o644)
}
