package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readMatrix parses CSV rows of numbers. Lines starting with '#' are
// skipped, and a first row that does not parse as numbers is treated as a
// header.
func readMatrix(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}

	rows := make([][]float64, 0, len(records))
	for line, rec := range records {
		row, err := parseRow(rec)
		if err != nil {
			if line == 0 {
				continue
			}
			return nil, fmt.Errorf("csv row %d: %w", line+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) ([]float64, error) {
	row := make([]float64, len(rec))
	for i, field := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		row[i] = v
	}
	return row, nil
}

// flattenSquare turns a square matrix into the flat row-major layout
// ClusterPrecomputed expects.
func flattenSquare(rows [][]float64) ([]float64, int, error) {
	n := len(rows)
	flat := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, 0, fmt.Errorf("distance matrix row %d has %d columns, want %d", i+1, len(row), n)
		}
		flat = append(flat, row...)
	}
	return flat, n, nil
}
