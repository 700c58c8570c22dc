package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inspercidados/cidados/internal/cite"
	"github.com/inspercidados/cidados/internal/resolve"
)

var citeCmd = &cobra.Command{
	Use:   "cite [dataset]",
	Short: "Generate a citation for a dataset",
	Long: `Cite prints a reference for a catalog dataset: plain text by default,
or a CSL-YAML item with --csl for Pandoc and reference managers. For
multi-DOI datasets the year selects which DOI is cited.`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

func init() {
	citeCmd.Flags().Int("year", 0, "dataset year (required for yearly datasets)")
	citeCmd.Flags().Bool("csl", false, "emit a CSL-YAML item instead of plain text")

	rootCmd.AddCommand(citeCmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	asCSL, _ := cmd.Flags().GetBool("csl")

	accessor, err := newAccessor()
	if err != nil {
		return err
	}
	desc, year, err := accessor.Validate(args[0], year, os.Stderr)
	if err != nil {
		return err
	}

	doi, err := resolve.RemoteID(desc, year)
	if err != nil {
		return err
	}

	if asCSL {
		return cite.FormatCSL(cite.Item(desc, doi, year), os.Stdout)
	}
	fmt.Println(cite.Plain(desc, doi, year))
	return nil
}
