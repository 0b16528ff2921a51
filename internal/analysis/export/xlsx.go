package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
)

const (
	recordsSheet = "Records"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with a Records sheet holding rows and a
// Summary sheet with the scan totals.
func WriteXLSX(w io.Writer, res *domain.Result, rows []domain.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(recordsSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Name, r.Type, r.Content, r.Reason, r.Confidence, string(r.Recommendation)}
		if err := f.SetSheetRow(recordsSheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(recordsSheet, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(recordsSheet, "C", "D", 32); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"domain", res.Domain},
		{"scanDate", res.ScanDate.UTC().Format("2006-01-02T15:04:05Z07:00")},
		{"totalRecords", res.Summary.TotalRecords},
		{"garbageCount", res.Summary.GarbageCount},
		{"safeToDeleteCount", res.Summary.SafeToDeleteCount},
		{"reviewNeededCount", res.Summary.ReviewNeededCount},
		{"estimatedMonthlySavings", res.EstimatedMonthlySavings},
	}
	for i, row := range summary {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
