package scheme

import "github.com/bnema/dcshell/internal/domain/entity"

// allowMainWindow admits only the host main window.
func allowMainWindow(label string) bool {
	return label == entity.MainWindowLabel
}

// allowEmbedded admits webxdc windows.
func allowEmbedded(label string) bool {
	return entity.IsEmbeddedLabel(label)
}

// allowHTMLContent admits the content webview of HTML email windows.
func allowHTMLContent(label string) bool {
	_, ok := entity.HTMLWindowLabelFromContent(label)
	return ok
}
