package port

import (
	"context"
	"net/url"

	"github.com/bnema/dcshell/internal/domain/entity"
)

// StoragePartitioner isolates the browsing data of webxdc instances.
type StoragePartitioner interface {
	// Attach sets the partition of (accountID, messageID) on opts.
	Attach(ctx context.Context, opts *WebviewOptions, accountID, messageID uint32) error
	// DeleteInstanceData removes one partition. Missing partitions are not an error.
	DeleteInstanceData(ctx context.Context, accountID, messageID uint32) error
	// DeleteAccountData removes every partition of the account.
	DeleteAccountData(ctx context.Context, accountID uint32) error
}

// DataStoreManager exposes native per-webview data stores of the host.
type DataStoreManager interface {
	DataStoreIDs(ctx context.Context) ([]entity.PartitionID, error)
	RemoveDataStore(ctx context.Context, id entity.PartitionID) error
}

// ProxyProvider supplies the proxy URL that blackholes webview traffic.
type ProxyProvider interface {
	URL() (*url.URL, error)
}

// UpdateSink is the channel a running webxdc app receives events on.
type UpdateSink interface {
	Send(update entity.WebxdcUpdate) error
}
