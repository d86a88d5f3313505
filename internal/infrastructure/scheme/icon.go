package scheme

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
)

// IconHandler serves webxdc-icon://<account_id>/<message_id>.
type IconHandler struct {
	engine port.AccountEngine
}

// NewIconHandler creates the webxdc icon handler.
func NewIconHandler(engine port.AccountEngine) *IconHandler {
	return &IconHandler{engine: engine}
}

func (h *IconHandler) Scheme() string { return SchemeIcon }

func (h *IconHandler) Allow(label string) bool { return allowMainWindow(label) }

func (h *IconHandler) Serve(ctx context.Context, req *Request) *Response {
	data, name, err := h.load(ctx, req)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("uri", req.URI.String()).Msg("failed to load webxdc icon")
		return textResponse(http.StatusInternalServerError, bodyLoadFailed)
	}
	return newResponse(http.StatusOK, contentType(data, name), data)
}

func (h *IconHandler) load(ctx context.Context, req *Request) ([]byte, string, error) {
	segs := segments(req)
	if len(segs) != 2 {
		return nil, "", fmt.Errorf("%w: expected <account_id>/<message_id>", entity.ErrInvalidPath)
	}
	accountID, err := strconv.ParseUint(segs[0], 10, 32)
	if err != nil {
		return nil, "", fmt.Errorf("%w: account id: %w", entity.ErrInvalidPath, err)
	}
	messageID, err := strconv.ParseUint(segs[1], 10, 32)
	if err != nil {
		return nil, "", fmt.Errorf("%w: message id: %w", entity.ErrInvalidPath, err)
	}

	account, err := h.engine.Account(ctx, uint32(accountID))
	if err != nil {
		return nil, "", err
	}
	msg, err := account.Message(ctx, uint32(messageID))
	if err != nil {
		return nil, "", err
	}
	if !msg.IsWebxdc() {
		return nil, "", fmt.Errorf("%w: message %d is not a webxdc", entity.ErrInstanceNotFound, messageID)
	}
	info, err := account.WebxdcInfo(ctx, msg)
	if err != nil {
		return nil, "", err
	}
	data, err := account.ReadBlob(ctx, msg, info.Icon)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", entity.ErrBlobRead, err)
	}
	return data, info.Icon, nil
}

var _ Handler = (*IconHandler)(nil)
