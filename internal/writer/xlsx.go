package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/order-scanner/internal/models"
)

// DefaultSheetName is the worksheet the results are written to.
const DefaultSheetName = "Ventas"

// XLSXWriter writes extraction results as an Excel workbook.
type XLSXWriter struct {
	SheetName string
}

func (w *XLSXWriter) Extension() string { return ".xlsx" }
func (w *XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write renders a single-sheet workbook with a header row. Totals are
// numeric cells; a missing total leaves its cell empty.
func (w *XLSXWriter) Write(out io.Writer, results []models.ExtractionResult) error {
	sheet := w.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it rather than adding a second sheet.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	for i, r := range results {
		row := i + 2
		values := []any{r.SourceFileName, string(r.Platform), r.OrderID, r.Folio, nil}
		if r.Total != nil {
			values[4] = *r.Total
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("xlsx row %d: %w", row, err)
			}
		}
	}

	// Order IDs and folios keep their leading zeros as text cells above;
	// give the columns room to show them.
	widths := []struct {
		col   string
		width float64
	}{
		{"A", 48}, // file
		{"B", 14}, // platform
		{"C", 24}, // order id
		{"D", 12}, // folio
		{"E", 14}, // total
	}
	for _, cw := range widths {
		if err := f.SetColWidth(sheet, cw.col, cw.col, cw.width); err != nil {
			return fmt.Errorf("xlsx column %s width: %w", cw.col, err)
		}
	}

	if len(results) > 0 {
		style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
		if err != nil {
			return fmt.Errorf("xlsx total style: %w", err)
		}
		if err := f.SetCellStyle(sheet, "E2", fmt.Sprintf("E%d", len(results)+1), style); err != nil {
			return fmt.Errorf("xlsx total style: %w", err)
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
