package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the local dataset cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached dataset files",
	RunE:  runCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [dataset]",
	Short: "Delete cached files, for one dataset or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	c, err := newCache()
	if err != nil {
		return err
	}

	entries, err := c.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("cache is empty (%s)\n", c.Root())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATASET\tYEAR\tSIZE\tCACHED ON")
	for _, e := range entries {
		year := ""
		if e.Year != 0 {
			year = fmt.Sprint(e.Year)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Dataset, year, e.Size, e.CachedOn.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := newCache()
	if err != nil {
		return err
	}

	id := ""
	if len(args) == 1 {
		id = args[0]
	}

	removed, err := c.Evict(id)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d cached file(s)\n", removed)
	return nil
}
