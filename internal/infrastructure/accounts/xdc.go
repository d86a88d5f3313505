package accounts

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/pelletier/go-toml/v2"
)

// maxArchiveEntrySize caps single files read from a webxdc archive.
const maxArchiveEntrySize = 64 << 20

// manifest is the manifest.toml of a webxdc archive.
type manifest struct {
	Name          string `toml:"name"`
	SourceCodeURL string `toml:"source_code_url"`
	MinAPI        int    `toml:"min_api"`
}

// iconNames are tried in order when looking for an app icon.
var iconNames = []string{"icon.png", "icon.jpg"}

// readArchiveFile reads one entry of the archive at archivePath.
func readArchiveFile(archivePath, name string) ([]byte, error) {
	clean, err := cleanArchivePath(name)
	if err != nil {
		return nil, err
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open webxdc archive: %w", err)
	}
	defer r.Close()

	f, err := r.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", clean, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxArchiveEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from archive: %w", clean, err)
	}
	if len(data) > maxArchiveEntrySize {
		return nil, fmt.Errorf("%s exceeds %d bytes", clean, maxArchiveEntrySize)
	}
	return data, nil
}

// cleanArchivePath normalizes a request path to an archive entry name.
func cleanArchivePath(name string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" || !fs.ValidPath(clean) {
		return "", fmt.Errorf("invalid archive path %q", name)
	}
	return clean, nil
}

// readManifest loads manifest.toml and locates the icon. A missing manifest
// is allowed, the archive name is used instead.
func readManifest(archivePath string) (manifest, string, error) {
	var m manifest
	data, err := readArchiveFile(archivePath, "manifest.toml")
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &m); err != nil {
			return m, "", fmt.Errorf("invalid manifest.toml: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return m, "", err
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	}

	icon := ""
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return m, "", fmt.Errorf("failed to open webxdc archive: %w", err)
	}
	defer r.Close()
	for _, candidate := range iconNames {
		if _, err := fs.Stat(r, candidate); err == nil {
			icon = candidate
			break
		}
	}
	return m, icon, nil
}
