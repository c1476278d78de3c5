package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ideamap/ideamap/pkg/document"
	"github.com/ideamap/ideamap/pkg/errors"
)

// FileStore keeps each map as a JSON file in a directory. It is the
// default backend for local single-user use.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/ideamap/maps/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "ideamap", "maps")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create map dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Dir returns the directory the store writes into.
func (s *FileStore) Dir() string { return s.baseDir }

func (s *FileStore) mapPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Load(ctx context.Context, name string) (document.Document, error) {
	if err := errors.ValidateMapName(name); err != nil {
		return document.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := document.ReadFile(s.mapPath(name))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return document.Document{}, notFound(name)
		}
		return document.Document{}, errors.Wrap(errors.ErrCodeStore, err, "load map %q", name)
	}
	return doc, nil
}

func (s *FileStore) Save(ctx context.Context, name string, doc document.Document) error {
	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file first so a crash mid-save never truncates the
	// only copy of a map.
	path := s.mapPath(name)
	tmp := path + ".tmp"
	if err := document.WriteFile(doc, tmp); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save map %q", name)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeStore, err, "save map %q", name)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list maps")
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateMapName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.mapPath(name)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "delete map %q", name)
	}
	return nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }
