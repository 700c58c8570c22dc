package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Prefetch every dataset in the catalog into the cache",
	Long: `Sync walks the whole catalog and downloads every (dataset, year)
combination that is not yet cached. Downloads are rate limited and
individual failures do not stop the run; a summary is printed at the end.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Float64("rps", 1, "download rate limit, requests per second")
	syncCmd.Flags().Bool("force-refresh", false, "re-download cached entries too")

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	rps, _ := cmd.Flags().GetFloat64("rps")
	if v := viper.GetFloat64("requests_per_second"); v > 0 && !cmd.Flags().Changed("rps") {
		rps = v
	}
	force, _ := cmd.Flags().GetBool("force-refresh")

	accessor, err := newAccessor()
	if err != nil {
		return err
	}
	store := newCatalog()
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	var fetched, failed, skipped int
	ctx := cmd.Context()

	for _, id := range store.IDs() {
		desc, err := store.Load(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed:  %s (%v)\n", id, err)
			failed++
			continue
		}

		years := []int{0}
		if desc.Yearly {
			years = desc.Years()
			if len(years) == 0 {
				fmt.Fprintf(os.Stderr, "warning: %s is yearly with unknown coverage, skipping\n", id)
				skipped++
				continue
			}
		}

		for _, year := range years {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			if _, err := accessor.Get(ctx, id, year, force, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "failed:  %s year %d (%v)\n", id, year, err)
				failed++
				continue
			}
			fetched++
		}
	}

	fmt.Printf("\nSync summary: %d fetched, %d failed, %d skipped\n", fetched, failed, skipped)
	if failed > 0 {
		return fmt.Errorf("%d dataset(s) failed to sync", failed)
	}
	return nil
}
