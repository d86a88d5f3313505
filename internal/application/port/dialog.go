package port

import "context"

// ConfirmRequest describes a modal confirmation dialog.
type ConfirmRequest struct {
	// ParentLabel is the window the dialog is attached to.
	ParentLabel string
	Title       string
	Message     string
	OKLabel     string
	CancelLabel string
}

// DialogPresenter shows modal dialogs.
type DialogPresenter interface {
	// Confirm blocks until the user answers and reports whether OK was chosen.
	Confirm(ctx context.Context, req ConfirmRequest) (bool, error)
}

// URLOpener opens links in the operating system's browser.
type URLOpener interface {
	OpenURL(ctx context.Context, rawURL string) error
}

// Translator resolves UI strings of the translation engine.
type Translator interface {
	Translate(key string, args ...string) string
}

// HostnameChecker flags hostnames whose ASCII and Unicode forms differ.
type HostnameChecker interface {
	Check(host string) (ascii string, ambiguous bool)
}
