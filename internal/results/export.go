package results

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/deedscan/deedscan/internal/record"
)

// ExportXLSX renders the result set as an XLSX workbook for operator
// review. Sentinel values are written as-is so degraded rows stay visible.
func ExportXLSX(rs record.ResultSet) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Records"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook only carries ours
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Artifact",
		"Date",
		"Owner Name",
		"Address",
		"APN / Tax ID",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for rowIdx, rec := range rs {
		values := []string{rec.ImageName, rec.Date, rec.OwnerName, rec.Address, rec.APNTaxID}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", rowIdx+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX persists the workbook to path. Best effort like every other
// output: the caller logs failures and moves on.
func WriteXLSX(path string, rs record.ResultSet, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := ExportXLSX(rs)
	if err != nil {
		return err
	}
	if err := writeFile(path, b); err != nil {
		return err
	}
	logger.Info("results.xlsx.written", "path", path, "rows", len(rs))
	return nil
}
