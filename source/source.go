// Package source creates revocable handles to video files.
//
// A handle is a uniquely named symlink to the original file. The player only
// ever sees the link, so revoking the handle cuts it off from the data
// without touching the original.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrRevoked is returned when a handle is revoked a second time.
	ErrRevoked = errors.New("source: handle already revoked")
	// ErrNotRegularFile is returned for directories and other non-files.
	ErrNotRegularFile = errors.New("source: not a regular file")
)

// Handle is a revocable reference to a video file.
type Handle struct {
	id     uuid.UUID
	target string
	link   string

	mu      sync.Mutex
	revoked bool
}

// Registry creates handles inside one directory.
type Registry struct {
	dir string
}

// NewRegistry creates the handle directory under base. An empty base uses
// os.TempDir.
func NewRegistry(base string) (*Registry, error) {
	if base == "" {
		base = os.TempDir()
	}
	dir, err := os.MkdirTemp(base, "trimcrop-sources-")
	if err != nil {
		return nil, fmt.Errorf("create source dir: %w", err)
	}
	return &Registry{dir: dir}, nil
}

// Dir returns the directory holding the links.
func (r *Registry) Dir() string {
	return r.dir
}

// Create returns a new handle for the video at path.
func (r *Registry) Create(path string) (*Handle, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("video file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, absPath)
	}

	id := uuid.New()
	ext := strings.ToLower(filepath.Ext(absPath))
	link := filepath.Join(r.dir, id.String()+ext)
	if err := os.Symlink(absPath, link); err != nil {
		return nil, fmt.Errorf("create source link: %w", err)
	}

	return &Handle{id: id, target: absPath, link: link}, nil
}

// Close removes the handle directory. Handles still live are cut off too.
func (r *Registry) Close() error {
	return os.RemoveAll(r.dir)
}

// ID returns the handle's unique id.
func (h *Handle) ID() string {
	return h.id.String()
}

// Path returns the path the player should load.
func (h *Handle) Path() string {
	return h.link
}

// Target returns the original file.
func (h *Handle) Target() string {
	return h.target
}

// Revoked reports whether Revoke has succeeded.
func (h *Handle) Revoked() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revoked
}

// Revoke removes the link. A second call returns ErrRevoked and leaves the
// filesystem alone.
func (h *Handle) Revoke() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.revoked {
		return ErrRevoked
	}
	h.revoked = true
	if err := os.Remove(h.link); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove source link: %w", err)
	}
	return nil
}
