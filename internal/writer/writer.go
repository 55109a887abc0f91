package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/insightdelivered/order-scanner/internal/models"
)

// ErrUnknownFormat is returned by New for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Columns is the header row shared by every output format.
var Columns = []string{"File", "Platform", "Order ID", "Folio", "Total"}

// Writer renders extraction results.
type Writer interface {
	Write(out io.Writer, results []models.ExtractionResult) error
	// Extension is the file extension, including the dot.
	Extension() string
	// ContentType is the MIME type of the output.
	ContentType() string
}

// New returns the writer for format ("csv" or "xlsx").
func New(format string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return &CSVWriter{IncludeHeader: true}, nil
	case "xlsx", "excel":
		return &XLSXWriter{SheetName: DefaultSheetName}, nil
	default:
		return nil, fmt.Errorf("%w: %q (use csv or xlsx)", ErrUnknownFormat, format)
	}
}

// WriteToFile writes results to the file at path.
func WriteToFile(w Writer, path string, results []models.ExtractionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Filter drops results without an order identifier.
func Filter(results []models.ExtractionResult) []models.ExtractionResult {
	kept := make([]models.ExtractionResult, 0, len(results))
	for _, r := range results {
		if r.Matched() {
			kept = append(kept, r)
		}
	}
	return kept
}

func formatTotal(total *float64) string {
	if total == nil {
		return ""
	}
	return strconv.FormatFloat(*total, 'f', 2, 64)
}
