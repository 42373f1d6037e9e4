package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	client *Client
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var serverURL string
	application := &app{}

	rootCmd := &cobra.Command{
		Use:           "schedctl",
		Short:         "schedctl: manage the post scheduler from the terminal",
		Long:          "schedctl talks to a running scheduler server: log in, connect mock platform accounts, and create, edit, publish, or delete scheduled posts.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			v := viper.New()
			v.SetEnvPrefix("SCHEDCTL")
			v.AutomaticEnv()
			v.SetDefault("server", "http://localhost:8080")
			if cmd.Flags().Changed("server") {
				v.Set("server", serverURL)
			}
			application.client = NewClient(v.GetString("server"))
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Scheduler server base URL (env SCHEDCTL_SERVER)")

	rootCmd.AddCommand(
		newLoginCmd(application),
		newLogoutCmd(application),
		newStatusCmd(application),
		newAccountsCmd(application),
		newPostsCmd(application),
	)

	return rootCmd
}
