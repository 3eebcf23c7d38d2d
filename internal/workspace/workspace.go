// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace manages isolated temporary directories for a single
// conversion request.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const prefix = "resconv-"

// Workspace is a uniquely named directory removed by Cleanup.
type Workspace struct {
	ID  string
	Dir string
}

// New creates <base>/resconv-<uuid>. An empty base means os.TempDir().
func New(base string) (*Workspace, error) {
	if base == "" {
		base = os.TempDir()
	}
	id := uuid.New().String()
	dir := filepath.Join(base, prefix+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating workspace %s: %w", dir, err)
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

// Path joins name onto the workspace directory. Only the base name of name
// is used, so callers cannot escape the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, filepath.Base(name))
}

// Cleanup removes the workspace and everything in it.
func (w *Workspace) Cleanup() error {
	if w == nil || w.Dir == "" {
		return nil
	}
	return os.RemoveAll(w.Dir)
}
