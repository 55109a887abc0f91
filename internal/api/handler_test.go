package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/order-scanner/internal/models"
	"github.com/insightdelivered/order-scanner/internal/parser"
)

const amazonText = "Venta DM Amazon 702-5831275-1421011\nFolio: 001234\nTotal MXN 1,050.00"

// stubExtractor returns fixed text for any upload.
type stubExtractor struct{ text string }

func (s stubExtractor) Text(ctx context.Context, data []byte) string { return s.text }

func setupTestApp() *fiber.App {
	return NewApp(&Handler{
		Engine:    parser.Default(),
		Extractor: stubExtractor{text: amazonText},
		Version:   "test",
	}, 1)
}

func postForm(t *testing.T, app *fiber.App, values url.Values) (int, ExtractResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/extract", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return doExtract(t, app, req)
}

func postFile(t *testing.T, app *fiber.App, fileName string, fields map[string]string) (int, ExtractResponse) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("%PDF-1.4 stub"))
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return doExtract(t, app, req)
}

func doExtract(t *testing.T, app *fiber.App, req *http.Request) (int, ExtractResponse) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	var result ExtractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response %q: %v", body, err)
	}
	return resp.StatusCode, result
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}
	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
	if result["version"] != "test" {
		t.Errorf("expected version=test, got %q", result["version"])
	}
}

func TestExtractEndpointRequiresInput(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("POST", "/api/extract", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Should fail because there is neither a file nor text in the body
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtractEndpointText(t *testing.T) {
	app := setupTestApp()

	status, got := postForm(t, app, url.Values{
		"text":     {"VENTA DM MERCADO LIBRE venta 2000004567891234 Total: $ 217,00"},
		"fileName": {"FE_DMM920422196_F3_131640.pdf"},
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, got.Error)
	}
	if !got.Success || !got.Matched || got.Result == nil {
		t.Fatalf("expected a matched result, got %+v", got)
	}
	if got.Result.Platform != models.PlatformMercadoLibre {
		t.Errorf("platform: got %q", got.Result.Platform)
	}
	if got.Result.OrderID != "2000004567891234" {
		t.Errorf("order id: got %q", got.Result.OrderID)
	}
	if got.Result.Folio != "131640" {
		t.Errorf("folio: got %q", got.Result.Folio)
	}
	if got.Result.Total == nil || *got.Result.Total != 217 {
		t.Errorf("total: got %v", got.Result.Total)
	}
	if got.RawText != "" {
		t.Error("raw text should only be returned in debug mode")
	}
}

func TestExtractEndpointPlatformOverride(t *testing.T) {
	app := setupTestApp()

	status, got := postForm(t, app, url.Values{
		"text":     {"Venta DM Shopify pedido 4521 referencia 2000123456789"},
		"platform": {"mercadolibre"},
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, got.Error)
	}
	if got.Result.OrderID != "2000123456789" {
		t.Errorf("order id: got %q", got.Result.OrderID)
	}

	status, got = postForm(t, app, url.Values{"text": {"x"}, "platform": {"ebay"}})
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400 for unknown platform, got %d", status)
	}
	if got.Success || got.Error == "" {
		t.Errorf("expected an error response, got %+v", got)
	}
}

func TestExtractEndpointUnmatched(t *testing.T) {
	app := setupTestApp()

	status, got := postForm(t, app, url.Values{"text": {"Factura sin pedido"}, "debug": {"true"}})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if got.Matched {
		t.Error("expected unmatched result")
	}
	if got.Result.Platform != models.PlatformUnknown {
		t.Errorf("platform: got %q", got.Result.Platform)
	}
	if got.RawText != "Factura sin pedido" {
		t.Errorf("raw text: got %q", got.RawText)
	}
}

func TestExtractEndpointFile(t *testing.T) {
	app := setupTestApp()

	status, got := postFile(t, app, "amazon.pdf", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, got.Error)
	}
	if got.Result.OrderID != "702-5831275-1421011" {
		t.Errorf("order id: got %q", got.Result.OrderID)
	}
	if got.Result.SourceFileName != "amazon.pdf" {
		t.Errorf("source file name: got %q", got.Result.SourceFileName)
	}

	status, _ = postFile(t, app, "notes.txt", nil)
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400 for non-PDF upload, got %d", status)
	}
}

func TestExportEndpoint(t *testing.T) {
	app := setupTestApp()
	total := 1050.0

	payload, _ := json.Marshal(ExportRequest{
		Format: "csv",
		Results: []models.ExtractionResult{
			{Platform: models.PlatformAmazon, OrderID: "702-5831275-1421011", Folio: "001234", Total: &total, SourceFileName: "a.pdf"},
			{Platform: models.PlatformUnknown, SourceFileName: "b.pdf"},
		},
	})

	req := httptest.NewRequest("POST", "/api/export", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type: got %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "ventas.csv") {
		t.Errorf("content disposition: got %q", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	want := "File,Platform,Order ID,Folio,Total\na.pdf,Amazon,702-5831275-1421011,001234,1050.00\n"
	if string(body) != want {
		t.Errorf("body:\ngot  %q\nwant %q", body, want)
	}
}

func TestExportEndpointXLSX(t *testing.T) {
	app := setupTestApp()

	payload, _ := json.Marshal(ExportRequest{
		Format:           "xlsx",
		IncludeUnmatched: true,
		Results:          []models.ExtractionResult{{Platform: models.PlatformUnknown, SourceFileName: "b.pdf"}},
	})
	req := httptest.NewRequest("POST", "/api/export", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "b.pdf" {
		t.Errorf("rows: got %v", rows)
	}
}

func TestExportEndpointBadFormat(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("POST", "/api/export", strings.NewReader(`{"format":"pdf","results":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
