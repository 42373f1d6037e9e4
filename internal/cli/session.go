package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postdeck/scheduler-server-go/internal/model"
)

func newLoginCmd(application *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := application.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
			printAccounts(cmd, session)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and disconnect all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := application.client.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCmd(application *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and connected accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := application.client.Session(cmd.Context())
			if err != nil {
				return err
			}
			if !session.Authenticated {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged in")
			printAccounts(cmd, session)
			return nil
		},
	}
}

func printAccounts(cmd *cobra.Command, session *model.Session) {
	out := cmd.OutOrStdout()
	for _, platform := range model.AllPlatforms() {
		account := session.ConnectedAccounts[platform]
		if account == nil {
			_, _ = fmt.Fprintf(out, "  %-10s not connected\n", platform)
			continue
		}
		_, _ = fmt.Fprintf(out, "  %-10s connected as %s\n", platform, account.Username)
	}
}
