// Package store persists encoded artifacts under the store root.
//
// Writes go through a temporary file in the target directory followed by
// a rename, so a failure mid-write never leaves a truncated artifact that
// would later pass the existence check.
package store

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"imgfetch/pkg/errors"
)

// Store handles byte-level persistence and checksums for one store root.
type Store struct {
	root string
}

// New creates a Store rooted at root and bootstraps the directory layout:
// full/ plus thumbs/<id>/ for every configured thumbnail id.
func New(root string, thumbIDs []string) (*Store, error) {
	subdirs := []string{filepath.Join(root, "full")}
	for _, id := range thumbIDs {
		subdirs = append(subdirs, filepath.Join(root, "thumbs", id))
	}

	for _, dir := range subdirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	return &Store{root: root}, nil
}

// Root returns the store root directory.
func (s *Store) Root() string {
	return s.root
}

// Exists reports whether an artifact is already present at path.
func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Persist writes data to path as a whole file. The write lands in a
// temporary file first and is renamed into place on success.
func (s *Store) Persist(path string, data []byte) error {
	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return errors.Wrap(errors.ErrorTypePersist, "", "failed to create temporary file", err)
	}

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return errors.Wrap(errors.ErrorTypePersist, "", "failed to write artifact data", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return errors.Wrap(errors.ErrorTypePersist, "", "failed to close artifact file", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return errors.Wrap(errors.ErrorTypePersist, "", "failed to rename temporary file", err)
	}

	return nil
}

// Read returns the bytes of a persisted artifact.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypePersist, "", "failed to read artifact", err)
	}
	return data, nil
}

// Checksum computes the MD5 hex digest of the bytes on disk at path, so
// the result reflects exactly what a later read will retrieve.
func (s *Store) Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrorTypePersist, "", "failed to open artifact for checksum", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(errors.ErrorTypePersist, "", "failed to checksum artifact", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
