// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the cidados pipeline.
package types

import (
	"fmt"
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
)

// Provenance records where a cached table came from. It is written as a
// YAML sidecar next to the cache file and attached to every loaded table.
type Provenance struct {
	// Source is the publishing project tag, always "inspercidados".
	Source string `json:"source" yaml:"source"`

	// Dataset is the catalog id the table was loaded for.
	Dataset string `json:"dataset" yaml:"dataset"`

	// Year is the requested year, 0 for non-yearly datasets.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// DOI is the resolved remote identifier.
	DOI string `json:"doi" yaml:"doi"`

	// Server is the Dataverse host the file was fetched from.
	Server string `json:"server" yaml:"server"`

	// Version is the descriptor version, when present.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// DownloadedAt is the cache file's modification time.
	DownloadedAt time.Time `json:"downloaded_at" yaml:"downloaded_at"`
}

// Table is an in-memory tabular dataset: a header row plus data rows, all
// values kept as strings the way they arrive from the cache file.
type Table struct {
	Columns    []string
	Rows       [][]string
	Provenance Provenance
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// Column returns all values of the named column, or an error if the column
// does not exist.
func (t *Table) Column(name string) ([]string, error) {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		vals := make([]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			if i < len(row) {
				vals = append(vals, row[i])
			} else {
				vals = append(vals, "")
			}
		}
		return vals, nil
	}
	return nil, fmt.Errorf("no column %q (have %v)", name, t.Columns)
}

// ColumnStats summarizes one numeric column.
type ColumnStats struct {
	Column string  `json:"column" yaml:"column"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// Describe computes summary statistics for every column where at least one
// value parses as a number. Non-numeric values within a numeric column are
// skipped rather than zeroed.
func (t *Table) Describe() ([]ColumnStats, error) {
	var out []ColumnStats
	for _, name := range t.Columns {
		vals, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		var nums stats.Float64Data
		for _, v := range vals {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				nums = append(nums, f)
			}
		}
		if len(nums) == 0 {
			continue
		}
		mean, err := nums.Mean()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		median, _ := nums.Median()
		min, _ := nums.Min()
		max, _ := nums.Max()
		sd, _ := nums.StandardDeviation()
		out = append(out, ColumnStats{
			Column: name,
			Count:  len(nums),
			Mean:   mean,
			Median: median,
			Min:    min,
			Max:    max,
			StdDev: sd,
		})
	}
	return out, nil
}
