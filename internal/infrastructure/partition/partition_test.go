package partition_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/infrastructure/filesystem"
	"github.com/bnema/dcshell/internal/infrastructure/partition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystem_AttachAndDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	p := partition.NewFilesystem(root, filesystem.New())

	var opts port.WebviewOptions
	require.NoError(t, p.Attach(ctx, &opts, 7, 1))
	assert.Equal(t, filepath.Join(root, "EmbeddedBrowsingData", "acc_7", "1"), opts.DataDirectory)
	assert.DirExists(t, opts.DataDirectory)

	var other port.WebviewOptions
	require.NoError(t, p.Attach(ctx, &other, 7, 2))
	var foreign port.WebviewOptions
	require.NoError(t, p.Attach(ctx, &foreign, 8, 3))
	require.NoError(t, os.WriteFile(filepath.Join(foreign.DataDirectory, "cookies"), []byte("x"), 0o600))

	require.NoError(t, p.DeleteInstanceData(ctx, 7, 1))
	assert.NoDirExists(t, opts.DataDirectory)
	assert.DirExists(t, other.DataDirectory)

	require.NoError(t, p.DeleteAccountData(ctx, 7))
	assert.NoDirExists(t, p.AccountDir(7))
	assert.FileExists(t, filepath.Join(foreign.DataDirectory, "cookies"))
}

func TestFilesystem_DeleteMissingIsClean(t *testing.T) {
	ctx := context.Background()
	p := partition.NewFilesystem(t.TempDir(), filesystem.New())

	require.NoError(t, p.DeleteInstanceData(ctx, 1, 1))
	require.NoError(t, p.DeleteAccountData(ctx, 1))
}

type fakeStores struct {
	mu        sync.Mutex
	ids       map[entity.PartitionID]bool
	removeErr error
}

func newFakeStores(ids ...entity.PartitionID) *fakeStores {
	s := &fakeStores{ids: make(map[entity.PartitionID]bool)}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

func (s *fakeStores) DataStoreIDs(context.Context) ([]entity.PartitionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]entity.PartitionID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeStores) RemoveDataStore(_ context.Context, id entity.PartitionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	if !s.ids[id] {
		return errors.New("no such data store")
	}
	delete(s.ids, id)
	return nil
}

func (s *fakeStores) remaining() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for id := range s.ids {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}

func TestNative_Attach(t *testing.T) {
	p := partition.NewNative(newFakeStores())
	var opts port.WebviewOptions
	require.NoError(t, p.Attach(context.Background(), &opts, 7, 1))
	require.NotNil(t, opts.DataStoreID)
	assert.Equal(t, entity.NewPartitionID(7, 1), *opts.DataStoreID)
	assert.Empty(t, opts.DataDirectory)
}

func TestNative_DeleteAccountData(t *testing.T) {
	var unrelated entity.PartitionID
	copy(unrelated[:], "someotherstore07")
	stores := newFakeStores(
		entity.NewPartitionID(7, 1),
		entity.NewPartitionID(7, 2),
		entity.NewPartitionID(8, 3),
		unrelated,
	)
	p := partition.NewNative(stores)

	require.NoError(t, p.DeleteAccountData(context.Background(), 7))

	want := []string{entity.NewPartitionID(8, 3).String(), unrelated.String()}
	sort.Strings(want)
	assert.Equal(t, want, stores.remaining())
}

func TestNative_DeleteInstanceData(t *testing.T) {
	stores := newFakeStores(entity.NewPartitionID(7, 1), entity.NewPartitionID(7, 2))
	p := partition.NewNative(stores)

	require.NoError(t, p.DeleteInstanceData(context.Background(), 7, 1))
	assert.Equal(t, []string{entity.NewPartitionID(7, 2).String()}, stores.remaining())

	// already gone
	require.NoError(t, p.DeleteInstanceData(context.Background(), 7, 1))
	require.NoError(t, p.DeleteAccountData(context.Background(), 99))
}

func TestNative_RemoveError(t *testing.T) {
	stores := newFakeStores(entity.NewPartitionID(7, 1))
	stores.removeErr = errors.New("busy")
	p := partition.NewNative(stores)

	err := p.DeleteAccountData(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}
