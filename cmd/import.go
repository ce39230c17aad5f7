package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Mark words and grammar points from a .xlsx or .csv file as due",
	Long: `Import reads rows of label, category, subcategory, grammar kind and adds
each item to the due list. Rows with a grammar kind are grammar points.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		icfg := importer.DefaultConfig()
		icfg.Path = args[0]
		icfg.Sheet, _ = cmd.Flags().GetString("sheet")
		if noHeader, _ := cmd.Flags().GetBool("no-header"); noHeader {
			icfg.SkipHeader = false
		}

		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.close(ctx)

		res, err := importer.Import(icfg, ws.store)
		if err != nil {
			return fmt.Errorf("import %s: %w", icfg.Path, err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Processed %d rows: %d newly due, %d skipped\n", res.Processed, res.Added, res.Skipped)
		for _, e := range res.Errors {
			fmt.Fprintln(w, "  "+e)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "Sheet to read (default: first sheet)")
	importCmd.Flags().Bool("no-header", false, "The first row is data, not a header")
}
