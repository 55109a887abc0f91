package extractor

import (
	"context"
	"os/exec"
	"testing"

	"go.uber.org/zap"
)

func TestIsOCRAvailable(t *testing.T) {
	// The result depends on the system's installed tools.
	result := IsOCRAvailable()
	t.Logf("IsOCRAvailable() = %v", result)

	_, err1 := exec.LookPath("pdftoppm")
	_, err2 := exec.LookPath("tesseract")
	expected := err1 == nil && err2 == nil
	if result != expected {
		t.Errorf("IsOCRAvailable() = %v, but direct check says %v", result, expected)
	}
}

func TestExtractWithOCR_MissingTools(t *testing.T) {
	if IsOCRAvailable() {
		t.Skip("OCR tools are installed; cannot test missing-tool error path")
	}

	_, err := extractWithOCR(context.Background(), "/nonexistent/file.pdf", "spa", zap.NewNop())
	if err == nil {
		t.Error("expected error when OCR tools are not installed")
	}
}

func TestExtractWithOCR_NonexistentFile(t *testing.T) {
	if !IsOCRAvailable() {
		t.Skip("OCR tools not installed; skipping")
	}

	_, err := extractWithOCR(context.Background(), "/tmp/nonexistent-file-12345.pdf", "spa", zap.NewNop())
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestPageCount(t *testing.T) {
	count := pageCount(context.Background(), "/tmp/nonexistent-file-12345.pdf")
	if count != 0 {
		t.Errorf("expected 0 pages for nonexistent file, got %d", count)
	}
}

func TestExtractWithOCR_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Fails either on the missing tools or on the canceled pdftoppm run.
	pages, err := extractWithOCR(ctx, "/tmp/nonexistent-file-12345.pdf", "spa+eng", zap.NewNop())
	if err == nil {
		t.Error("expected error for canceled context")
	}
	if pages != nil {
		t.Errorf("expected no pages, got %d", len(pages))
	}
}

func TestText_OCRLanguages(t *testing.T) {
	tests := []struct {
		name      string
		languages string
		expected  string
	}{
		{"default when empty", "", "spa+eng"},
		{"configured", "eng", "eng"},
		{"multiple", "spa+por", "spa+por"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := New(Config{OCR: true, OCRLanguages: tt.languages}, nil)
			if x.cfg.OCRLanguages != tt.expected {
				t.Errorf("got %q, want %q", x.cfg.OCRLanguages, tt.expected)
			}
			if !x.cfg.OCR {
				t.Error("OCR flag lost")
			}
			// Not a PDF: every stage fails, OCR included, and Text degrades to "".
			if got := x.Text(context.Background(), []byte("not a pdf")); got != "" {
				t.Errorf("Text: got %q, want empty", got)
			}
		})
	}
}
