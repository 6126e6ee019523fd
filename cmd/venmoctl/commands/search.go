package commands

import (
	"log/slog"
	"os"

	"venmoctl/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Searches users by handle or display name, best match first.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := setupClient(ctx)
		requireProfile(ctx, client)

		people, err := client.SearchPeople(ctx, args[0])
		if err != nil {
			serviceutil.Fatal("failed to search users", err)
		}
		if len(people) == 0 {
			slog.Info("no users matched", "query", args[0])
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Display name", "Handle", "Id", "Friend"})
		for _, person := range people {
			t.AppendRow(table.Row{person.DisplayName, person.Handle, person.Id, person.IsFriend})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
