package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/dcshell/internal/cli/styles"
	"github.com/bnema/dcshell/internal/infrastructure/accounts"
	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "List accounts and their webxdc apps",
	Long:  `List the accounts of the local account store and the webxdc messages they hold.`,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("app not initialized")
	}
	ctx := app.Ctx()

	engine, err := accounts.Open(ctx, app.Config.Paths.AccountsDir)
	if err != nil {
		return err
	}
	defer engine.Close()

	rows, accountCount, err := collectApps(ctx, engine)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, app.Theme.Title.Render("Accounts")+" "+app.Theme.StatusBadge(fmt.Sprintf("%d", accountCount), accountCount > 0))
	fmt.Fprintln(out, app.Theme.Subtle.Render(app.Config.Paths.AccountsDir))
	fmt.Fprintln(out)
	if len(rows) == 0 {
		fmt.Fprintln(out, app.Theme.Subtle.Render("no webxdc apps"))
		return nil
	}

	columns := styles.AppTableColumns()
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, r.ToRow())
	}
	tbl := styles.NewStyledTable(app.Theme, columns, tableRows, styles.TableWidth(columns), len(rows)+1)
	fmt.Fprintln(out, tbl.View())
	return nil
}

// collectApps lists every webxdc message of every account.
func collectApps(ctx context.Context, engine *accounts.LocalEngine) ([]styles.AppRow, int, error) {
	ids, err := engine.AccountIDs(ctx)
	if err != nil {
		return nil, 0, err
	}

	var rows []styles.AppRow
	for _, id := range ids {
		account, err := engine.LocalAccount(id)
		if err != nil {
			return nil, 0, err
		}
		addr, err := account.Config(ctx, accounts.ConfigAddr)
		if err != nil {
			return nil, 0, err
		}
		msgIDs, err := account.WebxdcMessages(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("account %d: %w", id, err)
		}
		for _, msgID := range msgIDs {
			row := styles.AppRow{AccountID: id, Address: addr, MessageID: msgID}
			msg, err := account.Message(ctx, msgID)
			if err != nil {
				return nil, 0, err
			}
			if info, err := account.WebxdcInfo(ctx, msg); err == nil {
				row.Name = info.Name
			}
			if chat, err := account.ChatName(ctx, msg.ChatID); err == nil {
				row.Chat = chat
			}
			rows = append(rows, row)
		}
	}
	return rows, len(ids), nil
}
