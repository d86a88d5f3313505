package entity

import "errors"

// Errors reported by the sandbox, the scheme handlers and the HTML email viewer.
var (
	// ErrAccountNotFound is returned when the account engine does not know the id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrMessageNotFound is returned by the account engine for unknown message ids.
	ErrMessageNotFound = errors.New("message not found")
	// ErrInstanceNotFound means the message is missing or is not a webxdc message.
	ErrInstanceNotFound = errors.New("webxdc instance not found")
	// ErrDuplicateInstance is returned by the registry when (account, message) is already open.
	ErrDuplicateInstance = errors.New("webxdc instance already open")
	// ErrInstanceExistsButWindowMissing signals a registry entry without a live window.
	ErrInstanceExistsButWindowMissing = errors.New("webxdc instance exists but its window is missing")
	// ErrInvalidPath is returned when URL decoding or a traversal check fails.
	ErrInvalidPath = errors.New("invalid path")
	// ErrBlobRead wraps underlying I/O failures while serving blobs.
	ErrBlobRead = errors.New("failed to read blob")
	// ErrBlackholeProxyUnavailable means the blackhole listener could not be bound.
	ErrBlackholeProxyUnavailable = errors.New("blackhole proxy unavailable, network isolation cannot be guaranteed")
	// ErrProxyBlocksRemoteContent is returned when remote content is requested on a proxied account.
	ErrProxyBlocksRemoteContent = errors.New("remote content is blocked because the account uses a proxy")
	// ErrUserCanceled is returned when the user dismissed a confirmation dialog.
	ErrUserCanceled = errors.New("user canceled")
	// ErrChannelNotInitialized is returned when an instance has no update channel yet.
	ErrChannelNotInitialized = errors.New("webxdc update channel not initialized")
	// ErrHTMLInstanceNotFound is returned for unknown html email window labels.
	ErrHTMLInstanceNotFound = errors.New("html email instance not found")
)
