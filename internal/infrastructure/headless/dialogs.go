package headless

import (
	"context"
	"sync"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/logging"
)

// Dialogs answers every confirmation with a fixed choice and records the
// requests it saw.
type Dialogs struct {
	answer bool

	mu   sync.Mutex
	seen []port.ConfirmRequest
}

// NewDialogs creates a presenter that always answers answer.
func NewDialogs(answer bool) *Dialogs {
	return &Dialogs{answer: answer}
}

func (d *Dialogs) Confirm(ctx context.Context, req port.ConfirmRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	d.seen = append(d.seen, req)
	d.mu.Unlock()

	logging.FromContext(ctx).Info().
		Str("component", "headless-dialogs").
		Str("window_label", req.ParentLabel).
		Str("title", req.Title).
		Bool("answer", d.answer).
		Msg("answered confirmation dialog")
	return d.answer, nil
}

// Requests returns the confirmations answered so far.
func (d *Dialogs) Requests() []port.ConfirmRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]port.ConfirmRequest(nil), d.seen...)
}

var _ port.DialogPresenter = (*Dialogs)(nil)
