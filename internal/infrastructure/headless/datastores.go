package headless

import (
	"bytes"
	"context"
	"sort"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
)

var _ port.DataStoreManager = (*Host)(nil)

// trackStore records the native data store of a webview. h.mu must be held.
func (h *Host) trackStore(opts port.WebviewOptions) {
	if opts.DataStoreID != nil {
		h.stores[*opts.DataStoreID] = struct{}{}
	}
}

func (h *Host) DataStoreIDs(ctx context.Context) ([]entity.PartitionID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]entity.PartitionID, 0, len(h.stores))
	for id := range h.stores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids, nil
}

func (h *Host) RemoveDataStore(ctx context.Context, id entity.PartitionID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.stores, id)
	return nil
}
