package cmd

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/reconcile"
)

const timeLayout = "2006-01-02 15:04"

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format(timeLayout)
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

func printSyncOutcome(cmd *cobra.Command, rep *reconcile.Report, syncErr string) {
	w := cmd.OutOrStdout()
	switch {
	case syncErr != "":
		fmt.Fprintf(w, "sync failed: %s\n", syncErr)
	case rep != nil:
		fmt.Fprintf(w, "synced %s: pulled %d, pushed %d, %d newly due\n",
			rep.Language, rep.Pulled, rep.Pushed, len(rep.NewDue))
		if rep.Skipped > 0 {
			fmt.Fprintf(w, "%d unreadable remote entries were skipped\n", rep.Skipped)
		}
	}
}
