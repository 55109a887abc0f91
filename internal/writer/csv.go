package writer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/insightdelivered/order-scanner/internal/models"
)

// CSVWriter writes extraction results in CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

func (w *CSVWriter) Extension() string   { return ".csv" }
func (w *CSVWriter) ContentType() string { return "text/csv" }

// Write writes one row per result to out.
func (w *CSVWriter) Write(out io.Writer, results []models.ExtractionResult) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		if err := writer.Write(Columns); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	for _, r := range results {
		row := []string{
			r.SourceFileName,
			string(r.Platform),
			r.OrderID,
			r.Folio,
			formatTotal(r.Total),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
