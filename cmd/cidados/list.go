package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every dataset in the catalog",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	summaries := newCatalog().List(os.Stderr)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tYEARLY\tCOVERAGE")
	for _, s := range summaries {
		yearly := ""
		if s.Yearly {
			yearly = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Title, yearly, s.TemporalCoverage)
	}
	return w.Flush()
}
