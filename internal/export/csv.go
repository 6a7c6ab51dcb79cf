package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"impulsescan/internal/domain/models"
	"impulsescan/pkg/util"
)

// Filename is the name suggested to downloaders of the CSV report.
const Filename = "impulse_report.csv"

var header = []string{"Symbol", "Date", "Daily Growth %", "Impulses"}

// WriteCSV renders scan results as delimited text: one header row, then one
// row per result with growth rounded to 2 decimal places. The column order is
// part of the export contract and must not change.
func WriteCSV(w io.Writer, results []models.ScanResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Symbol,
			util.FormatDate(r.Date),
			strconv.FormatFloat(r.RoundedGrowth(), 'f', 2, 64),
			strconv.Itoa(r.Impulses),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a report previously produced by WriteCSV.
func ReadCSV(r io.Reader) ([]models.ScanResult, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read csv: missing header")
	}
	if len(rows[0]) != len(header) || rows[0][0] != header[0] {
		return nil, fmt.Errorf("read csv: unexpected header %v", rows[0])
	}

	results := make([]models.ScanResult, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("read csv: row %d has %d columns", i+2, len(row))
		}
		date, ok := util.ParseDate(row[1])
		if !ok {
			return nil, fmt.Errorf("read csv: row %d has bad date %q", i+2, row[1])
		}
		growth, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("read csv: row %d has bad growth: %w", i+2, err)
		}
		impulses, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("read csv: row %d has bad impulse count: %w", i+2, err)
		}
		results = append(results, models.ScanResult{
			Symbol:   row[0],
			Date:     date,
			Growth:   growth,
			Impulses: impulses,
		})
	}
	return results, nil
}
