package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/progress"
)

var recordCmd = &cobra.Command{
	Use:   "record <label>",
	Short: "Record an already graded attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := promptFromFlags(cmd)
		if err != nil {
			return err
		}
		correct, _ := cmd.Flags().GetBool("correct")

		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.close(ctx)

		out, err := ws.store.RecordAttempt(progress.Input{
			Label:       args[0],
			Category:    p.Category,
			IsCorrect:   correct,
			SubCategory: p.SubCategory,
			GrammarKind: p.GrammarKind,
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if out.Duplicate {
			fmt.Fprintf(w, "%s: already recorded\n", out.Key)
			return nil
		}
		a := out.Record.Core()
		fmt.Fprintf(w, "%s: interval %.2f days, next review %s\n", out.Key, a.Schedule.Interval, formatMillis(a.NextReview))
		if out.Retired {
			fmt.Fprintf(w, "%s is no longer due\n", out.Key)
		}
		return nil
	},
}

func init() {
	addPromptFlags(recordCmd)
	recordCmd.Flags().Bool("correct", false, "The attempt was correct")
	recordCmd.Flags().Bool("incorrect", false, "The attempt was incorrect")
	recordCmd.MarkFlagsMutuallyExclusive("correct", "incorrect")
	recordCmd.MarkFlagsOneRequired("correct", "incorrect")
}
