package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/bnema/dcshell/internal/bootstrap"
	"github.com/bnema/dcshell/internal/cli/model"
	"github.com/spf13/cobra"
)

var (
	purgeAccount uint32
	purgeMessage uint32
	purgeForce   bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete webxdc storage partitions",
	Long: `Delete the storage partitions of webxdc apps: every app of an account, or a
single app with --message. Open windows of these apps are closed first.

Use --force to skip the confirmation.

Examples:
  dcshell purge --account 1
  dcshell purge --account 1 --message 12 --force`,
	RunE: runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().Uint32Var(&purgeAccount, "account", 0, "account id (required)")
	purgeCmd.Flags().Uint32Var(&purgeMessage, "message", 0, "limit to one webxdc message")
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "delete without prompting")
	_ = purgeCmd.MarkFlagRequired("account")
}

func runPurge(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("app not initialized")
	}
	ctx := app.Ctx()

	target := fmt.Sprintf("all webxdc data of account %d", purgeAccount)
	if purgeMessage != 0 {
		target = fmt.Sprintf("webxdc data of message %d in account %d", purgeMessage, purgeAccount)
	}

	if !purgeForce {
		ok, err := model.RunConfirm(ctx, app.Theme, model.ConfirmOptions{
			Message:     "Delete " + target + "?",
			OKLabel:     "Delete",
			CancelLabel: "Keep",
		}, os.Stdin, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), app.Theme.Subtle.Render("nothing deleted"))
			return nil
		}
	}

	shell, err := bootstrap.NewShell(ctx, bootstrap.ShellOptions{Config: app.Config, Settings: app.Settings})
	if err != nil {
		return err
	}
	defer shell.Close()

	if purgeMessage != 0 {
		err = shell.Webxdc.DeleteInstanceData(ctx, purgeAccount, purgeMessage)
	} else {
		err = shell.Webxdc.DeleteAccountData(ctx, purgeAccount)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), app.Theme.SuccessStyle.Render("deleted "+target))
	return nil
}
