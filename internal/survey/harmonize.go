// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package survey reshapes the annual mobility-survey workbooks into one
// long table. Each survey year ships as an xlsx workbook with its own
// column coding; a per-year mapping renames the columns onto a canonical
// variable set and the pipeline emits one row per (year, municipality,
// variable) into a csv file and a SQLite database.
package survey

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/inspercidados/cidados/pkg/types"
)

// LongRow is one observation of the harmonized long table.
type LongRow struct {
	Year     int
	UnitID   string
	Variable string
	Value    string
}

// YearMapping describes how one survey year's workbook is coded.
type YearMapping struct {
	// Sheet is the worksheet holding the data; empty means the first sheet.
	Sheet string `yaml:"sheet,omitempty"`

	// IDColumn is the header of the municipality identifier column.
	IDColumn string `yaml:"id_column"`

	// Columns maps source headers to canonical variable names. Source
	// columns not listed here are dropped.
	Columns map[string]string `yaml:"columns"`
}

// MappingSet maps survey year to its column coding.
type MappingSet map[int]YearMapping

// LoadMappings reads a MappingSet from a YAML file, or returns the built-in
// mappings when path is empty.
func LoadMappings(path string) (MappingSet, error) {
	if path == "" {
		return defaultMappings, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file: %w", err)
	}
	var m MappingSet
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing mapping file: %w", err)
	}
	return m, nil
}

// Summary holds the outcome of a harmonization run.
type Summary struct {
	Rows         int
	PerYear      map[int]int
	SkippedYears []int
}

// Harmonize reads every mapped survey year from cfg.InputDir, reshapes the
// workbooks into the long format, and writes pemob_long.csv plus a SQLite
// database pemob.db under cfg.OutputDir. Years whose workbook is missing
// are skipped with a warning; a missing year never aborts the run.
func Harmonize(cfg types.SurveyConfig, w io.Writer) (Summary, error) {
	mappings, err := LoadMappings(cfg.MappingFile)
	if err != nil {
		return Summary{}, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	years := make([]int, 0, len(mappings))
	for y := range mappings {
		years = append(years, y)
	}
	sort.Ints(years)

	summary := Summary{PerYear: make(map[int]int)}
	var all []LongRow

	for _, year := range years {
		path := filepath.Join(cfg.InputDir, fmt.Sprintf("pemob_%d.xlsx", year))
		rows, err := readYear(path, year, mappings[year])
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(w, "warning: no workbook for %d (%s), skipping\n", year, path)
				summary.SkippedYears = append(summary.SkippedYears, year)
				continue
			}
			return summary, fmt.Errorf("year %d: %w", year, err)
		}
		fmt.Fprintf(w, "harmonized %d: %d observations\n", year, len(rows))
		summary.PerYear[year] = len(rows)
		all = append(all, rows...)
	}
	summary.Rows = len(all)

	if err := writeLongCSV(filepath.Join(cfg.OutputDir, "pemob_long.csv"), all); err != nil {
		return summary, err
	}

	store, err := NewStore(filepath.Join(cfg.OutputDir, "pemob.db"))
	if err != nil {
		return summary, err
	}
	defer store.Close()

	for _, year := range years {
		if _, ok := summary.PerYear[year]; !ok {
			continue
		}
		if err := store.ReplaceYear(year, filterYear(all, year)); err != nil {
			return summary, fmt.Errorf("storing year %d: %w", year, err)
		}
	}

	fmt.Fprintf(w, "\nlong table: %d rows across %d year(s)\n", summary.Rows, len(summary.PerYear))
	return summary, nil
}

// readYear extracts the mapped columns of one workbook into long rows.
func readYear(path string, year int, m YearMapping) ([]LongRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := m.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	header := rows[0]
	idIdx := -1
	varIdx := map[int]string{} // column index -> canonical variable
	for i, h := range header {
		if h == m.IDColumn {
			idIdx = i
			continue
		}
		if canonical, ok := m.Columns[h]; ok {
			varIdx[i] = canonical
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("sheet %s: id column %q not found", sheet, m.IDColumn)
	}
	if len(varIdx) == 0 {
		return nil, fmt.Errorf("sheet %s: none of the mapped columns found", sheet)
	}

	var out []LongRow
	for _, row := range rows[1:] {
		if idIdx >= len(row) || row[idIdx] == "" {
			continue
		}
		for i, variable := range varIdx {
			if i >= len(row) || row[i] == "" {
				continue
			}
			out = append(out, LongRow{
				Year:     year,
				UnitID:   row[idIdx],
				Variable: variable,
				Value:    row[i],
			})
		}
	}

	// Stable output order: by unit, then variable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitID != out[j].UnitID {
			return out[i].UnitID < out[j].UnitID
		}
		return out[i].Variable < out[j].Variable
	})
	return out, nil
}

func writeLongCSV(path string, rows []LongRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"year", "municipality_id", "variable", "value"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{fmt.Sprint(r.Year), r.UnitID, r.Variable, r.Value}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func filterYear(rows []LongRow, year int) []LongRow {
	var out []LongRow
	for _, r := range rows {
		if r.Year == year {
			out = append(out, r)
		}
	}
	return out
}
