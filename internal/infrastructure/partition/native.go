package partition

import (
	"context"
	"fmt"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
	"golang.org/x/sync/errgroup"
)

// maxParallelRemovals bounds concurrent data store removals.
const maxParallelRemovals = 4

// Native uses data store identifiers of the host webview engine.
type Native struct {
	stores port.DataStoreManager
}

// NewNative creates a partitioner backed by native data stores.
func NewNative(stores port.DataStoreManager) *Native {
	return &Native{stores: stores}
}

// Attach sets the deterministic data store identifier of the instance.
func (p *Native) Attach(_ context.Context, opts *port.WebviewOptions, accountID, messageID uint32) error {
	id := entity.NewPartitionID(accountID, messageID)
	opts.DataStoreID = &id
	return nil
}

// DeleteInstanceData removes the data store of one instance if it exists.
func (p *Native) DeleteInstanceData(ctx context.Context, accountID, messageID uint32) error {
	want := entity.NewPartitionID(accountID, messageID)
	return p.removeMatching(ctx, func(id entity.PartitionID) bool { return id == want })
}

// DeleteAccountData removes every webxdc data store of the account.
func (p *Native) DeleteAccountData(ctx context.Context, accountID uint32) error {
	return p.removeMatching(ctx, func(id entity.PartitionID) bool {
		return id.IsWebxdc() && id.AccountID() == accountID
	})
}

func (p *Native) removeMatching(ctx context.Context, match func(entity.PartitionID) bool) error {
	log := logging.FromContext(ctx)

	ids, err := p.stores.DataStoreIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list data stores: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRemovals)
	for _, id := range ids {
		if !match(id) {
			continue
		}
		g.Go(func() error {
			if err := p.stores.RemoveDataStore(gctx, id); err != nil {
				return fmt.Errorf("failed to remove data store %s: %w", id, err)
			}
			log.Debug().Str("data_store", id.String()).Msg("removed webxdc data store")
			return nil
		})
	}
	return g.Wait()
}

var _ port.StoragePartitioner = (*Native)(nil)
