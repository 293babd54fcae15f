// Package filesystem provides the on-disk workspace used by the pipeline.
//
// All operations go through an afero.Fs so tests can run against an
// in-memory filesystem.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"clipharvest/domain/clip"

	"github.com/spf13/afero"
)

// Workspace implements clip.Workspace on top of afero
type Workspace struct {
	fs afero.Fs
}

// NewWorkspace creates a workspace backed by the operating system filesystem
func NewWorkspace() *Workspace {
	return NewWorkspaceWithFs(afero.NewOsFs())
}

// NewWorkspaceWithFs creates a workspace backed by fs
func NewWorkspaceWithFs(fs afero.Fs) *Workspace {
	return &Workspace{fs: fs}
}

// Fs returns the underlying filesystem
func (w *Workspace) Fs() afero.Fs {
	return w.fs
}

// Exists returns true if the path exists
func (w *Workspace) Exists(path string) bool {
	ok, err := afero.Exists(w.fs, path)
	return err == nil && ok
}

// EnsureDir creates path and any missing parents
func (w *Workspace) EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := w.fs.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// RemoveAll deletes path and everything below it. A missing path is not an error.
func (w *Workspace) RemoveAll(path string) error {
	if err := w.fs.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// FindByBaseName returns the first regular file in dir (by name order) whose
// name without its final extension equals base. The boolean is false when
// nothing matches or dir does not exist.
func (w *Workspace) FindByBaseName(dir, base string) (string, bool, error) {
	entries, err := afero.ReadDir(w.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.TrimSuffix(name, filepath.Ext(name)) == base {
			return filepath.Join(dir, name), true, nil
		}
	}

	return "", false, nil
}

// Ensure Workspace implements clip.Workspace
var _ clip.Workspace = (*Workspace)(nil)
