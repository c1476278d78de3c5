// Package assets stores binary attachments (node images) outside the map
// document. Documents reference assets by content hash, so pasting the
// same image twice stores it once and renaming a map never breaks
// references.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ideamap/ideamap/pkg/errors"
)

// refHashLen is how many hex digits of the content hash go into a
// reference. 32 digits (128 bits) makes accidental collisions a
// non-concern while keeping refs readable.
const refHashLen = 32

// Store is a directory of content-addressed asset files.
type Store struct {
	dir string
}

// NewStore creates an asset store rooted at dir.
// If dir is empty, defaults to ~/.config/ideamap/assets/
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "ideamap", "assets")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string { return s.dir }

// Save stores data and returns its reference. The extension ("png",
// "jpg") is kept so viewers can sniff the type from the name. Saving the
// same bytes again returns the same reference without rewriting.
func (s *Store) Save(data []byte, ext string) (string, error) {
	if len(data) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "asset data is empty")
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	sum := sha256.Sum256(data)
	ref := fmt.Sprintf("sha256-%s.%s", hex.EncodeToString(sum[:])[:refHashLen], ext)
	if err := errors.ValidateAssetRef(ref); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, ref)
	if _, err := os.Stat(path); err == nil {
		return ref, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "write asset %s", ref)
	}
	return ref, nil
}

// Open returns the stored bytes for a reference.
func (s *Store) Open(ref string) ([]byte, error) {
	path, err := s.Path(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeAssetNotFound, "asset %s not found", ref)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read asset %s", ref)
	}
	return data, nil
}

// Path returns the filesystem path an asset reference resolves to,
// without checking that the file exists.
func (s *Store) Path(ref string) (string, error) {
	if err := errors.ValidateAssetRef(ref); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, ref), nil
}

// URL returns a file:// URL for a stored asset, for viewers that load by
// URL rather than by bytes.
func (s *Store) URL(ref string) (string, error) {
	path, err := s.Path(ref)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", errors.New(errors.ErrCodeAssetNotFound, "asset %s not found", ref)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "resolve asset %s", ref)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// Rename stores an asset under a new reference and returns it. The new
// name is validated like any reference; documents pointing at the old
// reference must be updated by the caller.
func (s *Store) Rename(ref, newName string) (string, error) {
	oldPath, err := s.Path(ref)
	if err != nil {
		return "", err
	}
	newPath, err := s.Path(newName)
	if err != nil {
		return "", err
	}
	if newPath == oldPath {
		return ref, nil
	}
	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return "", errors.New(errors.ErrCodeAssetNotFound, "asset %s not found", ref)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "rename asset %s", ref)
	}
	return newName, nil
}

// Delete removes a stored asset. Deleting an absent asset is not an
// error; documents may reference assets that were already pruned.
func (s *Store) Delete(ref string) error {
	path, err := s.Path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "delete asset %s", ref)
	}
	return nil
}

// List returns all stored asset references.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list assets")
	}
	var refs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if errors.ValidateAssetRef(e.Name()) == nil {
			refs = append(refs, e.Name())
		}
	}
	return refs, nil
}
