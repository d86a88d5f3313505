package accounts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const accountsFileName = "accounts.toml"

// accountsFile is the on-disk list of accounts below the engine root.
type accountsFile struct {
	SelectedAccount uint32         `toml:"selected_account"`
	NextID          uint32         `toml:"next_id"`
	Accounts        []accountEntry `toml:"accounts"`
}

type accountEntry struct {
	ID  uint32 `toml:"id"`
	Dir string `toml:"dir"`
}

func loadAccountsFile(root string) (*accountsFile, error) {
	data, err := os.ReadFile(filepath.Join(root, accountsFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &accountsFile{NextID: 1}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", accountsFileName, err)
	}

	var f accountsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", accountsFileName, err)
	}
	if f.NextID == 0 {
		f.NextID = 1
	}
	for _, a := range f.Accounts {
		if a.ID >= f.NextID {
			f.NextID = a.ID + 1
		}
	}
	return &f, nil
}

// save writes the file atomically through a temp file and rename.
func (f *accountsFile) save(root string) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", accountsFileName, err)
	}
	tmp, err := os.CreateTemp(root, accountsFileName+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(root, accountsFileName))
}
