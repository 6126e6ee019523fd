package commands

import (
	"log/slog"

	"venmoctl/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Ends the remote session and clears persisted credentials.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := setupClient(ctx)

		err := client.Logout(ctx)
		if err != nil {
			serviceutil.Fatal("failed to logout", err)
		}
		slog.Info("logged out, local credentials cleared")
	},
}
