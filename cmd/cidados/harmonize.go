package main

import (
	"github.com/spf13/cobra"

	"github.com/inspercidados/cidados/internal/survey"
	"github.com/inspercidados/cidados/pkg/types"
)

var harmonizeCmd = &cobra.Command{
	Use:   "harmonize",
	Short: "Reshape the annual mobility-survey workbooks into one long table",
	Long: `Harmonize reads the per-year mobility-survey workbooks
(pemob_{year}.xlsx), applies each year's column mapping, and writes a single
long table as csv plus a SQLite database for querying. Years without a
workbook are skipped with a warning.`,
	RunE: runHarmonize,
}

func init() {
	harmonizeCmd.Flags().String("input", "data/pemob", "directory with pemob_{year}.xlsx workbooks")
	harmonizeCmd.Flags().String("output", "data/harmonized", "output directory for pemob_long.csv and pemob.db")
	harmonizeCmd.Flags().String("mapping", "", "YAML file overriding the built-in per-year column mappings")

	rootCmd.AddCommand(harmonizeCmd)
}

func runHarmonize(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	mapping, _ := cmd.Flags().GetString("mapping")

	cfg := types.SurveyConfig{
		InputDir:    input,
		OutputDir:   output,
		MappingFile: mapping,
	}

	_, err := survey.Harmonize(cfg, cmd.OutOrStdout())
	return err
}
