package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/cli/model"
	"github.com/bnema/dcshell/internal/cli/styles"
	"github.com/bnema/dcshell/internal/infrastructure/headless"
)

// Dialog modes of the serve command.
const (
	DialogsPrompt = "prompt"
	DialogsAccept = "accept"
	DialogsDeny   = "deny"
)

// PromptDialogs shows confirmation dialogs in the terminal, one at a time.
type PromptDialogs struct {
	theme *styles.Theme
	in    io.Reader
	out   io.Writer
	mu    sync.Mutex
}

var _ port.DialogPresenter = (*PromptDialogs)(nil)

func NewPromptDialogs(theme *styles.Theme, in io.Reader, out io.Writer) *PromptDialogs {
	return &PromptDialogs{theme: theme, in: in, out: out}
}

func (d *PromptDialogs) Confirm(ctx context.Context, req port.ConfirmRequest) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return model.RunConfirm(ctx, d.theme, model.ConfirmOptions{
		Title:       req.Title,
		Message:     req.Message,
		OKLabel:     req.OKLabel,
		CancelLabel: req.CancelLabel,
	}, d.in, d.out)
}

// NewDialogs picks the dialog presenter of a --dialogs mode.
func NewDialogs(mode string, theme *styles.Theme, in io.Reader, out io.Writer) (port.DialogPresenter, error) {
	switch mode {
	case DialogsPrompt:
		return NewPromptDialogs(theme, in, out), nil
	case DialogsAccept:
		return headless.NewDialogs(true), nil
	case DialogsDeny, "":
		return headless.NewDialogs(false), nil
	default:
		return nil, fmt.Errorf("unknown dialogs mode %q (want %s, %s or %s)", mode, DialogsPrompt, DialogsAccept, DialogsDeny)
	}
}
