package cmd

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List items due for review",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		grammarOnly, _ := cmd.Flags().GetBool("grammar")
		vocabOnly, _ := cmd.Flags().GetBool("vocab")

		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.close(ctx)

		now := time.Now()
		t := newTable(cmd)
		t.AppendHeader(table.Row{"Key", "Kind", "Status", "Next review", "Interval", "Overdue"})
		n := 0
		for _, it := range ws.store.DueItems(now) {
			if (grammarOnly && !it.Grammar) || (vocabOnly && it.Grammar) {
				continue
			}
			kind := "vocab"
			if it.Grammar {
				kind = "grammar"
			}
			overdue := "-"
			if it.Overdue > 0 {
				overdue = fmt.Sprintf("%.1fd", it.Overdue)
			}
			t.AppendRow(table.Row{
				it.Key,
				kind,
				string(it.Status),
				it.Review.NextReview.Local().Format(timeLayout),
				fmt.Sprintf("%.2f", it.Review.Schedule.Interval),
				overdue,
			})
			n++
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing is due.")
			return nil
		}
		t.Render()
		return nil
	},
}

func init() {
	dueCmd.Flags().Bool("grammar", false, "Only grammar items")
	dueCmd.Flags().Bool("vocab", false, "Only vocabulary items")
	dueCmd.MarkFlagsMutuallyExclusive("grammar", "vocab")
}
