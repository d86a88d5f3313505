package scheme

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/logging"
)

// BlobHandler serves blob://<account-folder>/<file> and
// sticker://<account-folder>/<pack>/<file> to the main window.
type BlobHandler struct {
	scheme string
	engine port.AccountEngine
}

// NewBlobHandler serves account blobs.
func NewBlobHandler(engine port.AccountEngine) *BlobHandler {
	return &BlobHandler{scheme: SchemeBlob, engine: engine}
}

// NewStickerHandler serves sticker packs stored next to the blob directory.
func NewStickerHandler(engine port.AccountEngine) *BlobHandler {
	return &BlobHandler{scheme: SchemeSticker, engine: engine}
}

func (h *BlobHandler) Scheme() string { return h.scheme }

func (h *BlobHandler) Allow(label string) bool { return allowMainWindow(label) }

func (h *BlobHandler) Serve(ctx context.Context, req *Request) *Response {
	log := logging.FromContext(ctx)

	folder, pack, file, err := h.parse(req)
	if err != nil {
		log.Warn().Err(err).Str("uri", req.URI.String()).Msg("rejected blob request")
		return textResponse(http.StatusBadRequest, bodyBadRequest)
	}

	account, err := accountByFolder(ctx, h.engine, folder)
	if err != nil {
		log.Error().Err(err).Str("account_folder", folder).Msg("blob request for unknown account")
		return textResponse(http.StatusInternalServerError, bodyLoadFailed)
	}

	path, err := h.resolve(account.BlobDir(), pack, file)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("resolved blob path failed the containment check")
		return textResponse(http.StatusInternalServerError, bodyLoadFailed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(fmt.Errorf("%w: %w", entity.ErrBlobRead, err)).Str("path", path).Msg("failed to read blob")
		return textResponse(http.StatusInternalServerError, bodyLoadFailed)
	}

	resp := newResponse(http.StatusOK, contentType(data, file), data)
	if h.scheme == SchemeBlob {
		resp.Header.Set("Access-Control-Allow-Origin", "*")
	}
	return resp
}

func (h *BlobHandler) parse(req *Request) (folder, pack, file string, err error) {
	segs := segments(req)
	want := 2
	if h.scheme == SchemeSticker {
		want = 3
	}
	if len(segs) != want {
		return "", "", "", fmt.Errorf("%w: expected %d path segments, got %d", entity.ErrInvalidPath, want, len(segs))
	}
	if folder, err = decodeName(segs[0]); err != nil {
		return "", "", "", err
	}
	if file, err = decodeName(segs[len(segs)-1]); err != nil {
		return "", "", "", err
	}
	if h.scheme == SchemeSticker {
		if pack, err = decodeName(segs[1]); err != nil {
			return "", "", "", err
		}
	}
	return folder, pack, file, nil
}

// resolve joins the target path and checks that it did not leave the
// blob or stickers directory.
func (h *BlobHandler) resolve(blobDir, pack, file string) (string, error) {
	blobDir = filepath.Clean(blobDir)
	if !strings.Contains(filepath.Base(blobDir), "blobs") {
		return blobDir, fmt.Errorf("blob directory %s is not a blobs directory", blobDir)
	}

	if h.scheme == SchemeBlob {
		path := filepath.Join(blobDir, file)
		if filepath.Dir(path) != blobDir || filepath.Base(path) != file {
			return path, fmt.Errorf("%w: %s escapes %s", entity.ErrInvalidPath, path, blobDir)
		}
		return path, nil
	}

	stickersDir := filepath.Join(filepath.Dir(blobDir), "stickers")
	path := filepath.Join(stickersDir, pack, file)
	if filepath.Dir(filepath.Dir(path)) != stickersDir || filepath.Base(path) != file {
		return path, fmt.Errorf("%w: %s escapes %s", entity.ErrInvalidPath, path, stickersDir)
	}
	return path, nil
}

// accountByFolder finds the account whose blob directory lives in folder.
func accountByFolder(ctx context.Context, engine port.AccountEngine, folder string) (port.Account, error) {
	ids, err := engine.AccountIDs(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		account, err := engine.Account(ctx, id)
		if err != nil {
			continue
		}
		if filepath.Base(filepath.Dir(filepath.Clean(account.BlobDir()))) == folder {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w: folder %s", entity.ErrAccountNotFound, folder)
}

var _ Handler = (*BlobHandler)(nil)
