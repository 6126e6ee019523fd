package commands

import (
	"os"

	"venmoctl/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(instrumentsCmd)
}

var instrumentsCmd = &cobra.Command{
	Use:   "instruments",
	Short: "Lists the wallet's funding instruments.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := setupClient(ctx)
		requireProfile(ctx, client)

		instruments, err := client.FundingInstruments(ctx)
		if err != nil {
			serviceutil.Fatal("failed to list funding instruments", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Name", "Type"})
		for _, instrument := range instruments {
			t.AppendRow(table.Row{instrument.Id, instrument.Name, instrument.InstrumentType})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
