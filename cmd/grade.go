package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/grading"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <input> <expected>",
	Short: "Grade an answer against the expected word",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		r := grading.Grade(args[0], args[1])
		fmt.Fprintf(cmd.OutOrStdout(), "%s (similarity %.2f)\n", r.Verdict, r.Score)
	},
}
