package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bnema/dcshell/internal/logging"
)

// ExitForced is the exit code after a second interrupt.
const ExitForced = 1

// WatchInterrupts returns a context cancelled by the first signal received
// on sigs. A second signal calls exit(ExitForced) without waiting for the
// shutdown. The returned stop func ends the watch.
func WatchInterrupts(parent context.Context, sigs <-chan os.Signal, exit func(code int)) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	log := logging.FromContext(parent)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		select {
		case sig := <-sigs:
			log.Info().Str("signal", sig.String()).Msg("shutting down, interrupt again to force")
			cancel()
		case <-done:
			return
		}
		select {
		case sig := <-sigs:
			log.Warn().Str("signal", sig.String()).Msg("forced exit")
			exit(ExitForced)
		case <-done:
		}
	}()

	return ctx, func() {
		once.Do(func() { close(done) })
		cancel()
	}
}

// NotifyInterrupts applies WatchInterrupts to SIGINT and SIGTERM of the
// process.
func NotifyInterrupts(parent context.Context) (context.Context, func()) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	ctx, stop := WatchInterrupts(parent, sigs, os.Exit)
	return ctx, func() {
		signal.Stop(sigs)
		stop()
	}
}
