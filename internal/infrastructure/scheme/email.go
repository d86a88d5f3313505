package scheme

import (
	"context"
	"net/http"

	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
)

// HTMLEmailLookup resolves HTML email viewer state by window label.
type HTMLEmailLookup interface {
	Get(label string) (entity.HTMLEmailInstance, bool)
}

// EmailHandler serves the content pane of HTML email windows.
type EmailHandler struct {
	instances HTMLEmailLookup
}

// NewEmailHandler creates the email scheme handler.
func NewEmailHandler(instances HTMLEmailLookup) *EmailHandler {
	return &EmailHandler{instances: instances}
}

func (h *EmailHandler) Scheme() string { return SchemeEmail }

func (h *EmailHandler) Allow(label string) bool { return allowHTMLContent(label) }

func (h *EmailHandler) Serve(ctx context.Context, req *Request) *Response {
	windowLabel, _ := entity.HTMLWindowLabelFromContent(req.WebviewLabel)
	inst, ok := h.instances.Get(windowLabel)
	if !ok {
		logging.FromContext(ctx).Warn().Str("window_label", windowLabel).Msg("email request for unknown html window")
		resp := textResponse(http.StatusNotFound, bodyNotFound)
		resp.Header.Set("Content-Security-Policy", EmailCSP(false))
		return resp
	}

	resp := newResponse(http.StatusOK, "text/html; charset=utf-8", inst.HTMLContent)
	resp.Header.Set("Content-Security-Policy", EmailCSP(inst.NetworkAllowState))
	return resp
}

var _ Handler = (*EmailHandler)(nil)
