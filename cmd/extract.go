package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/order-scanner/internal/extractor"
	"github.com/insightdelivered/order-scanner/internal/models"
	"github.com/insightdelivered/order-scanner/internal/parser"
)

var (
	extractPlatform string
	extractText     bool
	extractDebug    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file> [file...]",
	Short: "Extract a single receipt and print the result as JSON",
	Example: `  order-scanner extract FE_DMM920422196_F3_131640.pdf

  # Force the platform when the receipt does not name it
  order-scanner extract --platform amazon receipt.pdf

  # Input is already plain text (e.g. pdftotext output)
  order-scanner extract --text receipt.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractPlatform, "platform", "p", "", "force the platform: mercadolibre, shopify, amazon or unknown")
	extractCmd.Flags().BoolVar(&extractText, "text", false, "inputs are plain text files, not PDFs")
	extractCmd.Flags().BoolVar(&extractDebug, "debug", false, "print the extracted text to stderr")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var platform models.Platform
	if extractPlatform != "" {
		p, ok := parser.ParsePlatform(extractPlatform)
		if !ok {
			return fmt.Errorf("unknown platform %q. Supported: mercadolibre, shopify, amazon, unknown", extractPlatform)
		}
		platform = p
	}

	ex := extractor.New(state.cfg.ExtractorSettings(), state.logger)
	results := make([]models.ExtractionResult, 0, len(args))

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var text string
		if extractText {
			text = string(data)
		} else {
			if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
				return fmt.Errorf("expected .pdf file, got %q (use --text for plain text)", ext)
			}
			text = ex.Text(cmd.Context(), data)
		}
		if extractDebug {
			fmt.Fprintf(cmd.ErrOrStderr(), "--- %s ---\n%s\n", path, text)
		}

		name := filepath.Base(path)
		if platform != "" {
			results = append(results, state.engine.ExtractAs(text, name, platform))
		} else {
			results = append(results, state.engine.Extract(text, name))
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}
