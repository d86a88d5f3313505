package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Window label prefixes and webview suffixes used to route requests.
const (
	MainWindowLabel = "main"

	EmbeddedLabelPrefix = "embedded:"
	HTMLWindowPrefix    = "html-window:"
	HTMLHeaderSuffix    = "-header"
	HTMLContentSuffix   = "-mail"
)

// NewEmbeddedLabel returns a fresh window label for a webxdc instance.
func NewEmbeddedLabel() string {
	return EmbeddedLabelPrefix + uuid.NewString()
}

// NewHTMLWindowLabel returns a fresh window label for an HTML email viewer.
func NewHTMLWindowLabel() string {
	return HTMLWindowPrefix + uuid.NewString()
}

// IsEmbeddedLabel reports whether label belongs to a webxdc window.
func IsEmbeddedLabel(label string) bool {
	return strings.HasPrefix(label, EmbeddedLabelPrefix) && len(label) > len(EmbeddedLabelPrefix)
}

// HTMLWindowLabelFromContent maps the content webview label of an HTML email
// window back to the window label. ok is false for any other label.
func HTMLWindowLabelFromContent(webviewLabel string) (string, bool) {
	if !strings.HasPrefix(webviewLabel, HTMLWindowPrefix) || !strings.HasSuffix(webviewLabel, HTMLContentSuffix) {
		return "", false
	}
	label := strings.TrimSuffix(webviewLabel, HTMLContentSuffix)
	if len(label) <= len(HTMLWindowPrefix) {
		return "", false
	}
	return label, true
}
