package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent attempts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.close(ctx)

		history := ws.store.History()
		if len(history) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No attempts recorded.")
			return nil
		}
		if limit > 0 && len(history) > limit {
			history = history[:limit]
		}

		t := newTable(cmd)
		t.AppendHeader(table.Row{"When", "Kind", "Label", "Category", "Result", "Interval", "Next review"})
		for _, r := range history {
			a := r.Core()
			result := "wrong"
			if a.IsCorrect {
				result = "right"
			}
			t.AppendRow(table.Row{
				formatMillis(a.Timestamp),
				string(r.Kind()),
				a.Label,
				a.Category,
				result,
				fmt.Sprintf("%.2f", a.Schedule.Interval),
				formatMillis(a.NextReview),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum attempts to show (0 = all)")
}
