// Package browser opens links in the system web browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/bnema/dcshell/internal/application/port"
	"github.com/bnema/dcshell/internal/logging"
	pkgbrowser "github.com/pkg/browser"
)

// ErrUnsupportedScheme is returned for links the system browser must not handle.
var ErrUnsupportedScheme = errors.New("unsupported link scheme")

var allowedSchemes = map[string]bool{"http": true, "https": true, "mailto": true}

// Opener implements port.URLOpener.
type Opener struct {
	open func(string) error
}

func NewOpener() *Opener {
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
	return &Opener{open: pkgbrowser.OpenURL}
}

// NewOpenerFunc uses open instead of the system browser.
func NewOpenerFunc(open func(string) error) *Opener {
	return &Opener{open: open}
}

func (o *Opener) OpenURL(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid link: %w", err)
	}
	if !allowedSchemes[u.Scheme] {
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	logging.FromContext(ctx).Debug().Str("url", u.Redacted()).Msg("opening link in system browser")
	if err := o.open(u.String()); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

var _ port.URLOpener = (*Opener)(nil)
