package partition

import "github.com/bnema/dcshell/internal/application/port"

// NewDefault returns the partitioner used on this platform. macOS webviews
// have native data stores; fs is unused there.
func NewDefault(_ string, _ port.FileSystem, stores port.DataStoreManager) port.StoragePartitioner {
	return NewNative(stores)
}
