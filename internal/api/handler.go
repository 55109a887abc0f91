package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/insightdelivered/order-scanner/internal/models"
	"github.com/insightdelivered/order-scanner/internal/parser"
	"github.com/insightdelivered/order-scanner/internal/writer"
)

// ExtractResponse is the JSON response from the /api/extract endpoint.
type ExtractResponse struct {
	Success bool                     `json:"success"`
	Error   string                   `json:"error,omitempty"`
	Result  *models.ExtractionResult `json:"result,omitempty"`
	Matched bool                     `json:"matched"`
	RawText string                   `json:"rawText,omitempty"`
	Version string                   `json:"version,omitempty"`
}

// ExportRequest is the JSON body accepted by /api/export.
type ExportRequest struct {
	Format           string                    `json:"format"`
	IncludeUnmatched bool                      `json:"includeUnmatched"`
	Results          []models.ExtractionResult `json:"results"`
}

// TextExtractor converts uploaded PDF bytes into plain text.
type TextExtractor interface {
	Text(ctx context.Context, data []byte) string
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Engine    *parser.Engine
	Extractor TextExtractor
	Logger    *zap.Logger
	Version   string
	StaticDir string
}

// NewApp returns a fiber app with the middleware stack and routes installed.
func NewApp(h *Handler, bodyLimitMB int) *fiber.App {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 32
	}
	app := fiber.New(fiber.Config{
		AppName:               "order-scanner",
		BodyLimit:             bodyLimitMB << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.handleHealth)
	api.Post("/extract", h.handleExtract)
	api.Post("/export", h.handleExport)

	// Serve the web client, falling back to index.html for client-side routes
	if h.StaticDir != "" {
		app.Static("/", h.StaticDir)
		app.Get("/*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			index := filepath.Join(h.StaticDir, "index.html")
			if _, err := os.Stat(index); err != nil {
				return fiber.ErrNotFound
			}
			return c.SendFile(index)
		})
	}
}

func (h *Handler) engine() *parser.Engine {
	if h.Engine == nil {
		return parser.Default()
	}
	return h.Engine
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.Version,
		"engine":  "fiber",
	})
}

func (h *Handler) handleExtract(c *fiber.Ctx) error {
	var platform models.Platform
	if p := c.FormValue("platform"); p != "" {
		parsed, ok := parser.ParsePlatform(p)
		if !ok {
			return writeError(c, fiber.StatusBadRequest,
				fmt.Sprintf("Unknown platform: %q. Use mercadolibre, amazon, shopify or unknown.", p))
		}
		platform = parsed
	}

	var text, fileName string
	if header, err := c.FormFile("file"); err == nil {
		if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
		}
		if h.Extractor == nil {
			return writeError(c, fiber.StatusServiceUnavailable, "PDF extraction is not configured.")
		}
		file, err := header.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", err))
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to read upload: %v", err))
		}
		text = h.Extractor.Text(c.UserContext(), data)
		fileName = header.Filename
	} else {
		// Pre-extracted text, e.g. from client-side pdf.js
		text = c.FormValue("text")
		fileName = c.FormValue("fileName")
		if strings.TrimSpace(text) == "" {
			return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'text'.")
		}
	}

	var result models.ExtractionResult
	if platform != "" {
		result = h.engine().ExtractAs(text, fileName, platform)
	} else {
		result = h.engine().Extract(text, fileName)
	}

	h.logger().Info("document extracted",
		zap.String("file", fileName),
		zap.String("platform", string(result.Platform)),
		zap.String("order_id", result.OrderID),
		zap.Bool("matched", result.Matched()))

	resp := ExtractResponse{
		Success: true,
		Result:  &result,
		Matched: result.Matched(),
		Version: h.Version,
	}
	if c.FormValue("debug") == "true" {
		resp.RawText = text
	}
	return c.JSON(resp)
}

func (h *Handler) handleExport(c *fiber.Ctx) error {
	var req ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if req.Format == "" {
		req.Format = "csv"
	}

	w, err := writer.New(req.Format)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	rows := req.Results
	if !req.IncludeUnmatched {
		rows = writer.Filter(rows)
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, rows); err != nil {
		h.logger().Error("export failed", zap.String("format", req.Format), zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Export failed: %v", err))
	}

	c.Attachment("ventas" + w.Extension())
	c.Set(fiber.HeaderContentType, w.ContentType())
	return c.Send(buf.Bytes())
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success: false,
		Error:   msg,
	})
}
