package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.close(ctx)

		total, cats := ws.store.HistoryStats()

		t := newTable(cmd)
		t.AppendHeader(table.Row{"Category", "Attempts", "Correct", "Accuracy"})
		for _, c := range cats {
			t.AppendRow(table.Row{c.Category, c.Total, c.Correct, percent(c.Accuracy)})
		}
		t.AppendFooter(table.Row{"Total", total.Total, total.Correct, percent(total.Accuracy)})
		t.Render()

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Due: %d vocabulary, %d grammar\n", len(ws.store.DueSet()), len(ws.store.GrammarDueSet()))
		if at, ok := ws.store.GrammarLastReviewed(); ok {
			fmt.Fprintf(w, "Grammar last reviewed: %s\n", at.Local().Format(timeLayout))
		}
		return nil
	},
}
