// Package cmd provides Cobra CLI commands for dcshell.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bnema/dcshell/internal/cli"
	"github.com/bnema/dcshell/internal/domain/build"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidTheme = 2
)

var (
	app       *cli.App
	appOpts   cli.AppOptions
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "dcshell",
		Short: "Sandbox host for webxdc apps and HTML email",
		Long: `dcshell hosts webxdc apps and HTML emails of a chat client in isolated
web views and serves the blob, sticker, icon, background, webxdc and email
URI schemes out of the local account store.

Use 'dcshell serve' to run the shell core with the loopback HTTP bridge, or
the other subcommands to inspect and clean up the account store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "encode", "decode":
				return nil
			}

			var err error
			app, err = cli.NewApp(appOpts)
			if err != nil {
				return err
			}
			app.BuildInfo = buildInfo
			return nil
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&appOpts.ConfigFile, "config", "", "config file (default $XDG_CONFIG_HOME/dcshell/config.toml)")
	flags.StringVar(&appOpts.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&appOpts.LogFormat, "log-format", "", "log format: console or json")
	flags.StringVar(&appOpts.Theme, "theme", "", "theme: system, light, dark or a CSS theme in <config>/themes")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return ExitOK
}

func exitCode(err error) int {
	if errors.Is(err, cli.ErrUnknownTheme) {
		return ExitInvalidTheme
	}
	return ExitFailure
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
	rootCmd.Version = info.Version
	rootCmd.SetVersionTemplate(info.String() + "\n" + build.RepoURL() + "\n")
}
