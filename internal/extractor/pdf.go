package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Config controls the fallbacks used when the PDF text layer is unusable.
type Config struct {
	// OCR enables Tesseract as the last resort for scanned receipts.
	OCR bool
	// OCRLanguages is passed to tesseract -l.
	OCRLanguages string
	// MinTextLen is the shortest text accepted as readable.
	MinTextLen int
}

// DefaultConfig returns the settings used for Spanish-language receipts.
func DefaultConfig() Config {
	return Config{
		OCR:          false,
		OCRLanguages: "spa+eng",
		MinTextLen:   50,
	}
}

// Extractor converts PDF bytes into plain text, best effort.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// New returns an Extractor. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OCRLanguages == "" {
		cfg.OCRLanguages = DefaultConfig().OCRLanguages
	}
	if cfg.MinTextLen <= 0 {
		cfg.MinTextLen = DefaultConfig().MinTextLen
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Text returns the text content of a PDF. It never fails: when no method
// yields readable text it returns the longest candidate it saw, possibly "".
//
// The structured library is tried first (from memory), then the external
// pdftotext command (poppler-utils), then Tesseract OCR if enabled.
func (x *Extractor) Text(ctx context.Context, data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var candidates []string

	pages, err := extractWithLibrary(data)
	if err == nil {
		if x.isReadableText(pages) {
			return strings.Join(pages, "\n\n")
		}
		candidates = append(candidates, strings.Join(pages, "\n\n"))
	} else {
		x.logger.Debug("pdf library extraction failed", zap.Error(err))
	}

	path, cleanup, err := writeTemp(data)
	if err != nil {
		x.logger.Warn("cannot stage pdf for external tools", zap.Error(err))
		return longest(candidates)
	}
	defer cleanup()

	popplerPages, err := extractWithPdftotext(ctx, path)
	if err == nil {
		if x.isReadableText(popplerPages) {
			return strings.Join(popplerPages, "\n\n")
		}
		candidates = append(candidates, strings.Join(popplerPages, "\n\n"))
	} else {
		x.logger.Debug("pdftotext extraction failed", zap.Error(err))
	}

	if x.cfg.OCR {
		ocrPages, err := extractWithOCR(ctx, path, x.cfg.OCRLanguages, x.logger)
		if err == nil {
			candidates = append(candidates, strings.Join(ocrPages, "\n\n"))
		} else {
			x.logger.Warn("ocr extraction failed", zap.Error(err))
		}
	}

	return longest(candidates)
}

func writeTemp(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "receipt-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }
	if _, err := f.Write(data); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), cleanup, nil
}

func longest(candidates []string) string {
	best := ""
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}

// textQuality returns the ratio of readable characters (ASCII letters and
// digits, Spanish accented letters, common punctuation, whitespace) to total
// characters. unicode.IsLetter is too broad: identity-encoded fonts decode to
// arbitrary letters from other scripts.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*_", r) ||
				strings.ContainsRune("áéíóúüñÁÉÍÓÚÜÑ¿¡°", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear on virtually every sales receipt or invoice.
var commonWords = []string{
	"total", "folio", "venta", "factura", "pedido", "orden", "order",
	"fecha", "cliente", "importe", "subtotal", "iva", "rfc", "pago",
	"envio", "envío", "cantidad", "precio", "amazon", "shopify", "mercado",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires enough text, mostly readable characters and at
// least one receipt word.
func (x *Extractor) isReadableText(pages []string) bool {
	if totalTextLen(pages) <= x.cfg.MinTextLen {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

// extractWithPdftotext uses the external pdftotext command from poppler-utils
// as a fallback for PDFs that the Go library cannot handle.
func extractWithPdftotext(ctx context.Context, filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := pageCount(ctx, filePath)
	if numPages == 0 {
		numPages = 1
	}

	// Extract each page separately to preserve page boundaries
	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", "-f", pageStr, "-l", pageStr, filePath, "-").Output()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", filePath, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %w", err)
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			return []string{text}, nil
		}
		return nil, fmt.Errorf("pdftotext produced no output")
	}

	return pages, nil
}

// pageCount returns the number of pages reported by pdfinfo, or 0.
func pageCount(ctx context.Context, filePath string) int {
	out, err := exec.CommandContext(ctx, "pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

// extractWithLibrary reads the PDF text layer with ledongthuc/pdf. The
// library panics on some malformed files, hence the recover.
func extractWithLibrary(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if totalTextLen(pages) > 0 {
		return pages, nil
	}

	pages = extractByPagePlainText(r, numPages)
	if totalTextLen(pages) > 0 {
		return pages, nil
	}

	if text := extractByReaderPlainText(r); text != "" {
		return []string{text}, nil
	}
	return nil, fmt.Errorf("PDF has no text layer")
}

// extractByRow keeps the visual row layout, which puts "Total" next to its amount.
func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
