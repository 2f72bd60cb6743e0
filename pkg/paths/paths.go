// Package paths derives deterministic storage locations from source URLs.
//
// Every artifact of a URL lives under a path computed purely from the URL
// string: the SHA-1 hex digest of its UTF-8 bytes joined with a fixed .jpg
// extension. The same URL therefore maps to the same path on every run and
// on every platform, which is what makes the existence check in the
// pipeline a reliable cache probe.
package paths

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
)

const ext = ".jpg"

// Resolver computes artifact paths under a fixed store root.
type Resolver struct {
	root string
}

// NewResolver creates a Resolver rooted at the given store directory.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// Digest returns the lowercase hex SHA-1 of the URL's raw bytes.
func Digest(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// FullPath returns the path of the full-size artifact for a URL.
func (r *Resolver) FullPath(url string) string {
	return filepath.Join(r.root, "full", Digest(url)+ext)
}

// ThumbPath returns the path of a named thumbnail artifact for a URL.
func (r *Resolver) ThumbPath(url, thumbID string) string {
	return filepath.Join(r.root, "thumbs", thumbID, Digest(url)+ext)
}

// FullDir returns the directory holding full-size artifacts.
func (r *Resolver) FullDir() string {
	return filepath.Join(r.root, "full")
}

// ThumbDir returns the directory holding artifacts of one thumbnail id.
func (r *Resolver) ThumbDir(thumbID string) string {
	return filepath.Join(r.root, "thumbs", thumbID)
}

// Root returns the store root the resolver was created with.
func (r *Resolver) Root() string {
	return r.root
}
