package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/dcshell/internal/cli"
	"github.com/bnema/dcshell/internal/infrastructure/proxy"
	"github.com/spf13/cobra"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Hold a blackhole proxy and print its URL",
	Long: `Bind the blackhole SOCKS5 listener that webxdc views are pointed at and
print its URL. Connections are accepted into the backlog and never answered.
The listener is held until interrupted.`,
	RunE: runProxy,
}

func init() {
	rootCmd.AddCommand(proxyCmd)
}

func runProxy(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("app not initialized")
	}
	ctx, stop := cli.NotifyInterrupts(app.Ctx())
	defer stop()

	u, err := proxy.Shared().URL()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), u.String())

	<-ctx.Done()
	return nil
}
