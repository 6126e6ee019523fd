package commands

import (
	"fmt"
	"os"

	"venmoctl/lib/scrapers/venmo"
	"venmoctl/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	feedCount  *int
	feedCursor *string
)

func init() {
	feedCount = feedCmd.Flags().IntP("count", "n", 10, "Minimum number of transactions to fetch.")
	feedCursor = feedCmd.Flags().String("cursor", "", "Cursor to resume from, as printed by a previous run.")
	rootCmd.AddCommand(feedCmd)
}

// counterpartyLine renders who paid whom from the story's perspective.
func counterpartyLine(story venmo.Story) string {
	sender := "?"
	receiver := "?"
	if story.Title.Sender != nil {
		sender = story.Title.Sender.DisplayName
	}
	if story.Title.Receiver != nil {
		receiver = story.Title.Receiver.DisplayName
	}
	return fmt.Sprintf("%s -> %s", sender, receiver)
}

var feedCmd = &cobra.Command{
	Use:   "feed [-n <count>] [--cursor <cursor>]",
	Short: "Prints the account's peer-to-peer transaction feed.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := setupClient(ctx)
		requireProfile(ctx, client)

		page, err := client.FetchFeed(ctx, *feedCount, *feedCursor)
		if err != nil {
			serviceutil.Fatal("failed to fetch feed", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Amount", "Parties", "Note"})
		for _, story := range page.Stories {
			t.AppendRow(table.Row{
				story.Date,
				story.Amount,
				counterpartyLine(story),
				story.Note.Content,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		fmt.Printf("next cursor: %s\n", page.NextCursor)
	},
}
