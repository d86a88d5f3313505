// Package scheme serves the custom URI schemes of the shell: account blobs,
// stickers, chat backgrounds, webxdc icons, the webxdc app surface and
// HTML email content.
package scheme

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Scheme names.
const (
	SchemeBlob       = "blob"
	SchemeSticker    = "sticker"
	SchemeBackground = "bg-image"
	SchemeIcon       = "webxdc-icon"
	SchemeWebxdc     = "webxdc"
	SchemeEmail      = "email"
)

// Error bodies sent to webviews. Details only go to the log.
const (
	bodyBadRequest = "failed to parse requested url"
	bodyLoadFailed = "failed to load, look inside logfile for more info"
	bodyNotFound   = "not found"
)

var (
	// ErrRequestDenied is returned when the requesting webview may not use the scheme.
	ErrRequestDenied = errors.New("scheme request denied")
	// ErrUnknownScheme is returned for schemes without a handler.
	ErrUnknownScheme = errors.New("unknown scheme")
)

// Request is a custom scheme request. WebviewLabel is the only input that
// decides which instance, and therefore which account, is accessed.
type Request struct {
	WebviewLabel string
	URI          *url.URL
	Method       string
	// Scheme is the resolved scheme, also for http://<scheme>.localhost URIs.
	Scheme string
}

// NewRequest parses rawURI and resolves its scheme.
func NewRequest(webviewLabel, rawURI, method string) (*Request, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scheme uri: %w", err)
	}
	if method == "" {
		method = http.MethodGet
	}
	return &Request{
		WebviewLabel: webviewLabel,
		URI:          u,
		Method:       method,
		Scheme:       resolveScheme(u),
	}, nil
}

// resolveScheme maps http://<scheme>.localhost to <scheme>.
func resolveScheme(u *url.URL) string {
	if u.Scheme == "http" || u.Scheme == "https" {
		if name, ok := strings.CutSuffix(u.Hostname(), ".localhost"); ok && name != "" {
			return name
		}
	}
	return u.Scheme
}

// Response is what a handler sends back to the webview.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func newResponse(status int, contentType string, body []byte) *Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{StatusCode: status, Header: h, Body: body}
}

func textResponse(status int, body string) *Response {
	return newResponse(status, "text/plain; charset=utf-8", []byte(body))
}

// Responder is a oneshot sink for the response of one request.
type Responder interface {
	Respond(resp *Response)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(resp *Response)

func (f ResponderFunc) Respond(resp *Response) {
	f(resp)
}

// Handler serves one scheme.
type Handler interface {
	Scheme() string
	// Allow reports whether requests from webviewLabel may be served.
	Allow(webviewLabel string) bool
	Serve(ctx context.Context, req *Request) *Response
}
