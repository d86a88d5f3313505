//go:build !darwin

package partition

import "github.com/bnema/dcshell/internal/application/port"

// NewDefault returns the partitioner used on this platform.
func NewDefault(appLocalData string, fs port.FileSystem, _ port.DataStoreManager) port.StoragePartitioner {
	return NewFilesystem(appLocalData, fs)
}
