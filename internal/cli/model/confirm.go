// Package model holds the Bubble Tea programs of the CLI.
package model

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/dcshell/internal/cli/styles"
	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmDialog runs a styles.ConfirmModel as a standalone program.
type ConfirmDialog struct {
	confirm styles.ConfirmModel
}

// ConfirmOptions is the text of a confirmation dialog. Empty labels keep
// "Yes" and "No".
type ConfirmOptions struct {
	Title       string
	Message     string
	OKLabel     string
	CancelLabel string
}

// NewConfirmDialog creates the dialog program model.
func NewConfirmDialog(theme *styles.Theme, opts ConfirmOptions) ConfirmDialog {
	c := styles.NewConfirm(theme, opts.Message)
	c.Title = opts.Title
	if opts.OKLabel != "" {
		c.OKLabel = opts.OKLabel
	}
	if opts.CancelLabel != "" {
		c.CancelLabel = opts.CancelLabel
	}
	return ConfirmDialog{confirm: c}
}

func (m ConfirmDialog) Init() tea.Cmd { return nil }

func (m ConfirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.confirm, cmd = m.confirm.Update(msg)
	if m.confirm.Done() {
		return m, tea.Quit
	}
	return m, cmd
}

func (m ConfirmDialog) View() string {
	if m.confirm.Done() {
		return ""
	}
	return m.confirm.View() + "\n"
}

// Result reports whether the user confirmed.
func (m ConfirmDialog) Result() bool { return m.confirm.Result() }

// RunConfirm shows the dialog on out, reads keys from in and blocks until
// the user answers or ctx is cancelled.
func RunConfirm(ctx context.Context, theme *styles.Theme, opts ConfirmOptions, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(
		NewConfirmDialog(theme, opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithoutSignalHandler(),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("confirm dialog: %w", err)
	}
	dialog, ok := final.(ConfirmDialog)
	if !ok {
		return false, fmt.Errorf("confirm dialog: unexpected model %T", final)
	}
	return dialog.Result(), nil
}
