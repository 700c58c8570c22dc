package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [dataset]",
	Short: "Print summary statistics for a dataset's numeric columns",
	Long: `Describe loads a dataset (downloading it on a cache miss) and prints
count, mean, median, min, max, and standard deviation for every column with
numeric content.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().Int("year", 0, "dataset year (required for yearly datasets)")

	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")

	accessor, err := newAccessor()
	if err != nil {
		return err
	}

	table, err := accessor.Get(cmd.Context(), args[0], year, false, os.Stderr)
	if err != nil {
		return err
	}

	stats, err := table.Describe()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("no numeric columns")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tCOUNT\tMEAN\tMEDIAN\tMIN\tMAX\tSTDDEV")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			s.Column, s.Count, s.Mean, s.Median, s.Min, s.Max, s.StdDev)
	}
	return w.Flush()
}
