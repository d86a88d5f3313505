package scheme

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
)

//go:embed assets/webxdc.js
var bootstrapTemplate []byte

// Bootstrap placeholders substituted with JSON encoded values.
const (
	placeholderSelfAddr           = "__TEMPLATE_SELFADDR__"
	placeholderSelfName           = "__TEMPLATE_SELFNAME__"
	placeholderSendUpdateInterval = "__TEMPLATE_SEND_UPDATE_INTERVAL__"
	placeholderSendUpdateMaxSize  = "__TEMPLATE_SEND_UPDATE_MAX_SIZE__"
	placeholderSelfIdentity       = "__TEMPLATE_SELF_IDENTITY__"
)

// BootstrapPath is served from the bundled script instead of the archive.
const BootstrapPath = "/webxdc.js"

// InstanceLookup resolves webxdc instances by window label.
type InstanceLookup interface {
	Get(label string) (entity.Instance, bool)
}

// WebxdcHandler serves the app surface of embedded webxdc windows.
type WebxdcHandler struct {
	instances InstanceLookup
	engine    port.AccountEngine
}

// NewWebxdcHandler creates the webxdc scheme handler.
func NewWebxdcHandler(instances InstanceLookup, engine port.AccountEngine) *WebxdcHandler {
	return &WebxdcHandler{instances: instances, engine: engine}
}

func (h *WebxdcHandler) Scheme() string { return SchemeWebxdc }

func (h *WebxdcHandler) Allow(label string) bool { return allowEmbedded(label) }

func (h *WebxdcHandler) Serve(ctx context.Context, req *Request) *Response {
	log := logging.FromContext(ctx).With().Str("webview", req.WebviewLabel).Logger()

	inst, ok := h.instances.Get(req.WebviewLabel)
	if !ok {
		log.Warn().Msg("webxdc request from a window without instance")
		return withCSP(textResponse(http.StatusNotFound, bodyNotFound))
	}

	account, err := h.engine.Account(ctx, inst.AccountID)
	if err != nil {
		log.Error().Err(err).Uint32("account_id", inst.AccountID).Msg("webxdc account lookup failed")
		return withCSP(textResponse(http.StatusNotFound, bodyNotFound))
	}

	if req.URI.Path == BootstrapPath {
		info, err := account.WebxdcInfo(ctx, &inst.Message)
		if err != nil {
			log.Error().Err(err).Msg("failed to load webxdc info for bootstrap")
			return withCSP(textResponse(http.StatusInternalServerError, bodyLoadFailed))
		}
		script, err := renderBootstrap(info, inst.Label)
		if err != nil {
			log.Error().Err(err).Msg("failed to render webxdc bootstrap")
			return withCSP(textResponse(http.StatusInternalServerError, bodyLoadFailed))
		}
		return withCSP(newResponse(http.StatusOK, "text/javascript; charset=utf-8", script))
	}

	path := strings.TrimPrefix(req.URI.Path, "/")
	if path == "" {
		path = "index.html"
	}
	data, err := account.ReadBlob(ctx, &inst.Message, path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("webxdc file not found")
		return withCSP(textResponse(http.StatusNotFound, bodyNotFound))
	}
	return withCSP(newResponse(http.StatusOK, contentType(data, path), data))
}

func withCSP(resp *Response) *Response {
	resp.Header.Set("Content-Security-Policy", EmbeddedCSP)
	return resp
}

// renderBootstrap substitutes the placeholders of the bundled script.
func renderBootstrap(info *entity.WebxdcInfo, identity string) ([]byte, error) {
	values := []struct {
		placeholder string
		value       any
	}{
		{placeholderSelfAddr, info.SelfAddr},
		{placeholderSelfName, info.SelfName},
		{placeholderSendUpdateInterval, info.SendUpdateInterval},
		{placeholderSendUpdateMaxSize, info.SendUpdateMaxSize},
		{placeholderSelfIdentity, identity},
	}

	script := bootstrapTemplate
	for _, v := range values {
		encoded, err := json.Marshal(v.value)
		if err != nil {
			return nil, err
		}
		script = bytes.ReplaceAll(script, []byte(v.placeholder), encoded)
	}
	return script, nil
}

var _ Handler = (*WebxdcHandler)(nil)
