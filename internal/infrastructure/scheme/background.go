package scheme

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
)

// BackgroundDirName is the directory below app local data holding chat backgrounds.
const BackgroundDirName = "background"

// BackgroundHandler serves bg-image://host/<file> from the background directory.
type BackgroundHandler struct {
	dir string
}

// NewBackgroundHandler serves files from <appLocalData>/background.
func NewBackgroundHandler(appLocalData string) *BackgroundHandler {
	return &BackgroundHandler{dir: filepath.Join(appLocalData, BackgroundDirName)}
}

func (h *BackgroundHandler) Scheme() string { return SchemeBackground }

func (h *BackgroundHandler) Allow(label string) bool { return allowMainWindow(label) }

func (h *BackgroundHandler) Serve(ctx context.Context, req *Request) *Response {
	log := logging.FromContext(ctx)

	segs := segments(req)
	if len(segs) == 0 {
		return textResponse(http.StatusBadRequest, bodyBadRequest)
	}
	file, err := decodeName(segs[len(segs)-1])
	if err != nil {
		log.Warn().Err(err).Str("uri", req.URI.String()).Msg("rejected background image request")
		return textResponse(http.StatusBadRequest, bodyBadRequest)
	}

	path := filepath.Join(h.dir, file)
	if filepath.Base(filepath.Dir(path)) != BackgroundDirName || filepath.Base(path) != file {
		log.Error().Str("path", path).Msg("background image path escapes the background directory")
		return textResponse(http.StatusInternalServerError, bodyLoadFailed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(fmt.Errorf("%w: %w", entity.ErrBlobRead, err)).Str("path", path).Msg("failed to read background image")
		return textResponse(http.StatusInternalServerError, bodyLoadFailed)
	}
	return newResponse(http.StatusOK, contentType(data, file), data)
}

var _ Handler = (*BackgroundHandler)(nil)
