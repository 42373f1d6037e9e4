package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAccountsCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Connect and disconnect mock platform accounts",
	}

	cmd.AddCommand(newAccountsConnectCmd(application), newAccountsDisconnectCmd(application))

	return cmd
}

func newAccountsConnectCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connect <platform>",
		Short: "Connect a platform account (facebook, instagram, twitter)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.client.ConnectAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printAccounts(cmd, session)
			return nil
		},
	}
}

func newAccountsDisconnectCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <platform>",
		Short: "Disconnect a platform account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.client.DisconnectAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Disconnected %s\n", args[0])
			printAccounts(cmd, session)
			return nil
		},
	}
}
