// Package xdg resolves XDG Base Directory paths for dcshell.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/bnema/dcshell/internal/application/port"
)

// AppName is the directory name used below each XDG base directory.
const AppName = "dcshell"

// Adapter implements port.XDGPaths.
type Adapter struct{}

// New creates a new XDG paths adapter.
func New() *Adapter {
	return &Adapter{}
}

// ConfigDir returns $XDG_CONFIG_HOME/dcshell (default: ~/.config/dcshell).
func (a *Adapter) ConfigDir() (string, error) {
	return baseDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns $XDG_DATA_HOME/dcshell (default: ~/.local/share/dcshell).
func (a *Adapter) DataDir() (string, error) {
	return baseDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func baseDir(envVar, homeRelative string) (string, error) {
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRelative, AppName), nil
}

var _ port.XDGPaths = (*Adapter)(nil)
