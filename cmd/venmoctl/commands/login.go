package commands

import (
	"log/slog"

	"venmoctl/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Prompts for credentials and starts an authenticated session.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := setupClient(ctx)

		promptLogin(ctx, client)

		identity, err := client.Profile(ctx)
		if err != nil {
			serviceutil.Fatal("failed to fetch profile", err)
		}
		slog.Info(
			"session ready",
			"handle", identity.Handle,
			"balance", identity.Balance.UserBalance.Value,
		)
	},
}
