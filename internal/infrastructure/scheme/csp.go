package scheme

import "strings"

// EmbeddedCSP is set on every webxdc response. webrtc 'block' is not
// implemented by every engine yet, the init script covers the rest.
var EmbeddedCSP = strings.Join([]string{
	"default-src 'self';",
	"style-src 'self' 'unsafe-inline' blob:;",
	"font-src 'self' data: blob:;",
	"script-src 'self' 'unsafe-inline' 'unsafe-eval' blob:;",
	"connect-src 'self' ipc: data: blob:;",
	"img-src 'self' data: blob:;",
	"media-src 'self' data: blob:;",
	"webrtc 'block';",
}, " ")

// emailCSPDenied keeps HTML email content off the network.
var emailCSPDenied = strings.Join([]string{
	"default-src 'none';",
	"style-src 'self' 'unsafe-inline' data:;",
	"font-src 'self' data:;",
	"img-src 'self' data:;",
	"media-src 'self' data:;",
	"script-src 'none';",
	"form-action 'none';",
}, " ")

// emailCSPAllowed additionally loads remote fonts, images and media.
var emailCSPAllowed = strings.Join([]string{
	"default-src 'none';",
	"style-src 'self' 'unsafe-inline' data:;",
	"font-src 'self' data: http: https:;",
	"img-src 'self' data: http: https:;",
	"media-src 'self' data: http: https:;",
	"script-src 'none';",
	"form-action 'none';",
}, " ")

// EmailCSP returns the policy for HTML email content.
func EmailCSP(networkAllowed bool) string {
	if networkAllowed {
		return emailCSPAllowed
	}
	return emailCSPDenied
}
