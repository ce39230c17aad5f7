package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/session"
)

var answerCmd = &cobra.Command{
	Use:   "answer <label> <expected> <input>",
	Short: "Grade and record one answer, then sync",
	Long: `Grade <input> against <expected>, record the attempt for <label> and
end the session, which flushes progress and syncs when a remote is configured.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		prompt, err := promptFromFlags(cmd)
		if err != nil {
			return err
		}
		prompt.Label = args[0]
		prompt.Expected = args[1]

		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.close(ctx)

		sess := session.New(ws.store, ws.syncer, session.WithLogger(logger))
		fb, err := sess.Answer(prompt, args[2])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case fb.Outcome.Duplicate:
			fmt.Fprintf(out, "%s: already recorded\n", fb.Outcome.Key)
		case fb.Correct:
			fmt.Fprintf(out, "%s (similarity %.2f), next review %s\n",
				fb.Grade.Verdict, fb.Grade.Score, formatMillis(fb.Outcome.Record.Core().NextReview))
		default:
			fmt.Fprintf(out, "%s (similarity %.2f), expected %q\n", fb.Grade.Verdict, fb.Grade.Score, prompt.Expected)
		}
		if fb.Outcome.Retired {
			fmt.Fprintf(out, "%s is no longer due\n", fb.Outcome.Key)
		}

		sum := sess.End(ctx)
		printSyncOutcome(cmd, sum.Sync, sum.SyncError)
		return nil
	},
}

func init() {
	addPromptFlags(answerCmd)
	answerCmd.Flags().String("translation", "", "Translation shown with the item")
	answerCmd.Flags().String("audio", "", "Audio reference for the item")
}

// addPromptFlags registers the flags that identify an item.
func addPromptFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("category", "c", "", "Item category (required)")
	cmd.Flags().String("grammar-kind", "", "Grammar review kind: rule, conjugation or vocabulary")
	cmd.Flags().String("sub", "", "Grammar subcategory")
	_ = cmd.MarkFlagRequired("category")
}

func promptFromFlags(cmd *cobra.Command) (session.Prompt, error) {
	var p session.Prompt
	p.Category, _ = cmd.Flags().GetString("category")
	p.SubCategory, _ = cmd.Flags().GetString("sub")
	gk, _ := cmd.Flags().GetString("grammar-kind")
	p.GrammarKind = progress.GrammarKind(gk)
	if gk != "" && !p.GrammarKind.Valid() {
		return p, fmt.Errorf("invalid grammar kind %q (valid values: rule, conjugation, vocabulary)", gk)
	}
	if cmd.Flags().Lookup("translation") != nil {
		p.Translation, _ = cmd.Flags().GetString("translation")
		p.AudioRef, _ = cmd.Flags().GetString("audio")
	}
	return p, nil
}
