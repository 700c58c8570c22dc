package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var infoCmd = &cobra.Command{
	Use:   "info [dataset]",
	Short: "Show dataset metadata without downloading",
	Long: `Info prints the catalog descriptor, year coverage, resolved remote
target, and cache state for a dataset. Remote version metadata is fetched
best-effort: when the repository is unreachable the result is marked
degraded and carries only local metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Int("year", 0, "dataset year (required for yearly datasets)")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")

	accessor, err := newAccessor()
	if err != nil {
		return err
	}

	info, err := accessor.Info(cmd.Context(), args[0], year, os.Stderr)
	if err != nil {
		return err
	}

	if info.Degraded {
		fmt.Fprintf(os.Stderr, "warning: remote metadata unavailable: %s\n", info.DegradedReason)
	}

	data, err := yaml.Marshal(info)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
