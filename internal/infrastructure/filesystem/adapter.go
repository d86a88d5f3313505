package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/bnema/dcshell/internal/application/port"
)

const dirPerm = 0o700

// Adapter implements port.FileSystem using the OS filesystem.
type Adapter struct{}

// New creates a new filesystem adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (a *Adapter) MkdirAll(_ context.Context, path string) error {
	return os.MkdirAll(path, dirPerm)
}

func (a *Adapter) RemoveAll(_ context.Context, path string) error {
	return os.RemoveAll(path)
}

// ReadDir lists entry names of path. A missing directory yields no entries.
func (a *Adapter) ReadDir(_ context.Context, path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

var _ port.FileSystem = (*Adapter)(nil)
