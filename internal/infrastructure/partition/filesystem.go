// Package partition assigns and tears down the per-instance browsing data
// stores of webxdc webviews.
package partition

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/logging"
)

// DirName is the directory below app local data that holds all partitions.
const DirName = "EmbeddedBrowsingData"

// Filesystem keeps each instance's browsing data in
// <app_local_data>/EmbeddedBrowsingData/acc_<account>/<message>/.
type Filesystem struct {
	root string
	fs   port.FileSystem
}

// NewFilesystem creates a filesystem partitioner below appLocalData.
func NewFilesystem(appLocalData string, fs port.FileSystem) *Filesystem {
	return &Filesystem{
		root: filepath.Join(appLocalData, DirName),
		fs:   fs,
	}
}

// AccountDir returns the partition directory of all instances of an account.
func (p *Filesystem) AccountDir(accountID uint32) string {
	return filepath.Join(p.root, "acc_"+strconv.FormatUint(uint64(accountID), 10))
}

// InstanceDir returns the partition directory of one instance.
func (p *Filesystem) InstanceDir(accountID, messageID uint32) string {
	return filepath.Join(p.AccountDir(accountID), strconv.FormatUint(uint64(messageID), 10))
}

// Attach creates the instance directory and sets it as the webview data directory.
func (p *Filesystem) Attach(ctx context.Context, opts *port.WebviewOptions, accountID, messageID uint32) error {
	dir := p.InstanceDir(accountID, messageID)
	if err := p.fs.MkdirAll(ctx, dir); err != nil {
		return fmt.Errorf("failed to create browsing data directory %s: %w", dir, err)
	}
	opts.DataDirectory = dir
	return nil
}

// DeleteInstanceData removes the instance directory.
func (p *Filesystem) DeleteInstanceData(ctx context.Context, accountID, messageID uint32) error {
	dir := p.InstanceDir(accountID, messageID)
	if err := p.fs.RemoveAll(ctx, dir); err != nil {
		return fmt.Errorf("failed to remove browsing data %s: %w", dir, err)
	}
	logging.FromContext(ctx).Debug().Str("dir", dir).Msg("removed webxdc browsing data")
	return nil
}

// DeleteAccountData removes the acc_<account> directory with every instance below it.
func (p *Filesystem) DeleteAccountData(ctx context.Context, accountID uint32) error {
	dir := p.AccountDir(accountID)
	exists, err := p.fs.Exists(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to stat account browsing data %s: %w", dir, err)
	}
	if !exists {
		return nil
	}
	instances, err := p.fs.ReadDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("failed to list account browsing data %s: %w", dir, err)
	}
	if err := p.fs.RemoveAll(ctx, dir); err != nil {
		return fmt.Errorf("failed to remove account browsing data %s: %w", dir, err)
	}
	logging.FromContext(ctx).Info().
		Uint32("account_id", accountID).
		Str("dir", dir).
		Int("instances", len(instances)).
		Msg("removed account browsing data")
	return nil
}

var _ port.StoragePartitioner = (*Filesystem)(nil)
