package cmd

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bnema/dcshell/internal/application/usecase"
	"github.com/bnema/dcshell/internal/bootstrap"
	"github.com/bnema/dcshell/internal/cli"
	"github.com/bnema/dcshell/internal/infrastructure/config"
	"github.com/bnema/dcshell/internal/infrastructure/i18n"
	"github.com/bnema/dcshell/internal/logging"
	"github.com/spf13/cobra"
)

var (
	serveDialogs string
	serveListen  string
	serveLocale  string
	serveOpen    []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the shell core with the HTTP scheme bridge",
	Long: `Run the shell core headless: the account engine, the webxdc and HTML email
viewers, the scheme dispatcher and the loopback HTTP bridge serving
http://<scheme>.localhost plus /healthz and /metrics.

Every bridge request except /healthz must carry the token printed at start,
either in the X-Dcshell-Token header or as the first path segment. Requests
with an Origin outside bridge.allowed_origins are refused.

Interrupt once to shut down cleanly, twice to force exit.

Examples:
  dcshell serve
  dcshell serve --listen 127.0.0.1:8900 --open 1:12
  dcshell serve --dialogs prompt --locale de`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveDialogs, "dialogs", cli.DialogsDeny, "confirmation dialogs: prompt, accept or deny")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "bridge listen address, overrides bridge.listen")
	serveCmd.Flags().StringVar(&serveLocale, "locale", "", "UI language, read from <config>/locales/<lang>.toml")
	serveCmd.Flags().StringSliceVar(&serveOpen, "open", nil, "open webxdc apps at start, as account:message")
}

func runServe(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("app not initialized")
	}

	ctx, stop := cli.NotifyInterrupts(app.Ctx())
	defer stop()
	log := logging.FromContext(ctx)

	cfg := app.Config
	if serveListen != "" {
		cfg.Bridge.Listen = serveListen
	}

	dialogs, err := cli.NewDialogs(serveDialogs, app.Theme, os.Stdin, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	translator, err := i18n.Load(filepath.Join(app.Manager.ConfigDir(), "locales"), serveLocale)
	if err != nil {
		return err
	}

	shell, err := bootstrap.NewShell(ctx, bootstrap.ShellOptions{
		Config:     cfg,
		Settings:   app.Settings,
		Dialogs:    dialogs,
		Translator: translator,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := shell.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close account engine")
		}
	}()

	app.Manager.OnConfigChange(func(next *config.Config) {
		log.Info().
			Str("theme", next.Theme).
			Int("close_delay_ms", next.Sandbox.CloseDelayMs).
			Msg("config changed, restart serve to apply")
	})
	app.Manager.Watch(*log)

	addr, err := shell.Start()
	if err != nil {
		return err
	}
	if addr != "" {
		_, port, _ := net.SplitHostPort(addr)
		fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Highlight.Render("bridge listening on http://"+addr))
		// The host reads the main window base URL from stdout.
		fmt.Fprintln(cmd.OutOrStdout(), "http://<scheme>.localhost:"+port+"/"+shell.Bridge.Token()+"/")
	}

	for _, ref := range serveOpen {
		accountID, messageID, err := parseMessageRef(ref)
		if err != nil {
			return err
		}
		label, err := shell.Webxdc.Open(ctx, usecase.OpenWebxdcInput{AccountID: accountID, MessageID: messageID})
		if err != nil {
			return fmt.Errorf("open %s: %w", ref, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Subtle.Render("opened "+ref+" as "+label))
	}

	return shell.Run(ctx)
}

// parseMessageRef parses "account:message".
func parseMessageRef(ref string) (uint32, uint32, error) {
	a, m, ok := strings.Cut(ref, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid message reference %q, want account:message", ref)
	}
	accountID, err := strconv.ParseUint(a, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid account id in %q: %w", ref, err)
	}
	messageID, err := strconv.ParseUint(m, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid message id in %q: %w", ref, err)
	}
	return uint32(accountID), uint32(messageID), nil
}
