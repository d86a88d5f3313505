package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/dcshell/internal/domain/entity"
	"github.com/bnema/dcshell/internal/infrastructure/notify"
	"github.com/spf13/cobra"
)

var (
	deeplinkScheme string
	deeplinkID     string
	deeplinkAction string
	deeplinkInfo   map[string]string
)

var deeplinkCmd = &cobra.Command{
	Use:   "deeplink",
	Short: "Encode and decode notification deep links",
	Long: `Notification responses are routed back to the app as deep links:

  <scheme>://<notification id>/<action>?<base64(json(user info))>

The action is "default", "dismiss" or the id of a custom action.`,
}

var deeplinkEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build the deep link of a notification response",
	Example: `  dcshell deeplink encode --id 42 --action reply --info chat=7 --info msg=12
  dcshell deeplink encode --scheme dcnotification --id 42 --action dismiss`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		link, err := notify.Encode(deeplinkScheme, entity.NotificationResponse{
			NotificationID: deeplinkID,
			Action:         parseAction(deeplinkAction),
			UserInfo:       deeplinkInfo,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	},
}

var deeplinkDecodeCmd = &cobra.Command{
	Use:   "decode <link>",
	Short: "Print the notification response of a deep link as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scheme, resp, err := notify.Decode(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(decodedLink{
			Scheme:         scheme,
			NotificationID: resp.NotificationID,
			Action:         formatAction(resp.Action),
			UserInfo:       resp.UserInfo,
		})
	},
}

type decodedLink struct {
	Scheme         string            `json:"scheme"`
	NotificationID string            `json:"notification_id"`
	Action         string            `json:"action"`
	UserInfo       map[string]string `json:"user_info,omitempty"`
}

func init() {
	rootCmd.AddCommand(deeplinkCmd)
	deeplinkCmd.AddCommand(deeplinkEncodeCmd, deeplinkDecodeCmd)

	f := deeplinkEncodeCmd.Flags()
	f.StringVar(&deeplinkScheme, "scheme", "dcnotification", "deep link scheme")
	f.StringVar(&deeplinkID, "id", "", "notification id (required)")
	f.StringVar(&deeplinkAction, "action", "default", "default, dismiss or a custom action id")
	f.StringToStringVar(&deeplinkInfo, "info", nil, "user info entries as key=value")
	_ = deeplinkEncodeCmd.MarkFlagRequired("id")
}

func parseAction(s string) entity.NotificationAction {
	switch s {
	case entity.NotificationActionDefault:
		return entity.NotificationAction{Kind: entity.NotificationActionDefault}
	case entity.NotificationActionDismiss:
		return entity.NotificationAction{Kind: entity.NotificationActionDismiss}
	default:
		return entity.NotificationAction{Kind: entity.NotificationActionOther, ID: s}
	}
}

func formatAction(a entity.NotificationAction) string {
	if a.Kind == entity.NotificationActionOther {
		return a.ID
	}
	return a.Kind
}
