// Package port defines application-layer interfaces for the collaborators
// the shell core depends on: the account engine, the host window system,
// the settings store and user-facing dialogs.
package port

import (
	"context"
	"encoding/json"

	"github.com/bnema/dcshell/internal/domain/entity"
)

// AccountEngine enumerates accounts of the messaging library.
type AccountEngine interface {
	// AccountIDs lists all configured accounts.
	AccountIDs(ctx context.Context) ([]uint32, error)
	// Account returns the account or an error wrapping entity.ErrAccountNotFound.
	Account(ctx context.Context, id uint32) (Account, error)
}

// Account is one account of the messaging library.
// Implementations must be safe for concurrent use.
type Account interface {
	ID() uint32
	// BlobDir is the absolute directory holding the account's blobs.
	BlobDir() string

	// Message loads a fresh message snapshot or fails with entity.ErrMessageNotFound.
	Message(ctx context.Context, messageID uint32) (*entity.Message, error)
	// ChatName returns the display name of a chat.
	ChatName(ctx context.Context, chatID uint32) (string, error)
	// ProxyEnabled reports whether the account routes its traffic through a proxy.
	ProxyEnabled(ctx context.Context) (bool, error)

	// WebxdcInfo reads the manifest metadata of a webxdc message.
	WebxdcInfo(ctx context.Context, msg *entity.Message) (*entity.WebxdcInfo, error)
	// ReadBlob reads a file from inside the webxdc archive of msg.
	ReadBlob(ctx context.Context, msg *entity.Message, path string) ([]byte, error)

	// SendStatusUpdate stores and sends a status update of a webxdc app.
	SendStatusUpdate(ctx context.Context, messageID uint32, update json.RawMessage) error
	// StatusUpdates returns the JSON array of updates newer than lastKnownSerial.
	StatusUpdates(ctx context.Context, messageID uint32, lastKnownSerial uint32) (string, error)

	JoinRealtime(ctx context.Context, messageID uint32) error
	LeaveRealtime(ctx context.Context, messageID uint32) error
	SendRealtimeData(ctx context.Context, messageID uint32, data []byte) error
}
