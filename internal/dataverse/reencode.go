// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataverse

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// reencode converts the downloaded temp file into the cache's tabular
// format when the wire format differs. Spreadsheet workbooks (xlsx) and
// tab-separated exports (Dataverse ingests tabular files as .tab) become
// csv; anything else is kept byte-for-byte. It returns the path holding the
// encoded content, which may be tmpPath itself when no conversion ran.
func reencode(tmpPath, remoteName, destPath string) (string, error) {
	remoteExt := strings.ToLower(strings.TrimPrefix(filepath.Ext(remoteName), "."))
	destExt := strings.ToLower(strings.TrimPrefix(filepath.Ext(destPath), "."))

	if remoteExt == destExt || destExt != "csv" {
		return tmpPath, nil
	}

	switch remoteExt {
	case "xlsx":
		return xlsxToCSV(tmpPath)
	case "tab", "tsv":
		return tsvToCSV(tmpPath)
	default:
		return tmpPath, nil
	}
}

// xlsxToCSV writes the first sheet of the workbook at path as csv next to it.
func xlsxToCSV(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	return writeCSVRows(path, rows)
}

// tsvToCSV rewrites a tab-separated file as csv next to it.
func tsvToCSV(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	var rows [][]string
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		rows = append(rows, strings.Split(scanner.Text(), "\t"))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading tabular file: %w", err)
	}

	return writeCSVRows(path, rows)
}

func writeCSVRows(srcPath string, rows [][]string) (string, error) {
	outPath := srcPath + ".csv"
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}

	w := csv.NewWriter(out)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			out.Close()
			os.Remove(outPath)
			return "", fmt.Errorf("writing csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", err
	}
	return outPath, nil
}
