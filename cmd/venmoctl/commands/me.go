package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(meCmd)
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Prints the authenticated account's profile and balance.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := setupClient(ctx)
		identity := requireProfile(ctx, client)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendRows([]table.Row{
			{"Display name", identity.DisplayName},
			{"Handle", identity.Handle},
			{"Id", identity.Id},
			{"Balance", fmt.Sprintf("$%.2f", identity.Balance.UserBalance.Value)},
			{"Denylisted", identity.IsDenylisted},
			{"Suspended", identity.IsSuspended},
		})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
