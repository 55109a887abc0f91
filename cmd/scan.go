package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/order-scanner/internal/extractor"
	"github.com/insightdelivered/order-scanner/internal/models"
	"github.com/insightdelivered/order-scanner/internal/scanner"
	"github.com/insightdelivered/order-scanner/internal/source"
	"github.com/insightdelivered/order-scanner/internal/writer"
)

var (
	scanOutput           string
	scanFormat           string
	scanWorkers          int
	scanIncludeUnmatched bool
	scanOCR              bool
	scanQuiet            bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Extract every receipt in a folder and export the results",
	Long: `Scan walks a folder recursively, extracts platform, order ID, folio and
total from every PDF and writes one row per matched receipt to a CSV or
Excel file. Receipts without an order ID are dropped unless
--include-unmatched is set.`,
	Example: `  # Export all receipts in ./ventas to ventas.xlsx
  order-scanner scan ./ventas

  # CSV with 8 workers
  order-scanner scan ./ventas --format csv --workers 8 --output enero.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "output file (default ventas.<format> in the working directory)")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "", "output format: csv or xlsx")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "documents processed concurrently")
	scanCmd.Flags().BoolVar(&scanIncludeUnmatched, "include-unmatched", false, "also export receipts without an order ID")
	scanCmd.Flags().BoolVar(&scanOCR, "ocr", false, "OCR scanned receipts with Tesseract")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "do not print progress")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := state.cfg
	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Scan.Folder = args[0]
	}
	if flags.Changed("format") {
		cfg.Scan.Format = scanFormat
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers = scanWorkers
	}
	if flags.Changed("include-unmatched") {
		cfg.Scan.IncludeUnmatched = scanIncludeUnmatched
	}
	if flags.Changed("output") {
		cfg.Scan.Output = scanOutput
	}
	if flags.Changed("ocr") {
		cfg.Extractor.OCR = scanOCR
	}
	if cfg.Scan.Folder == "" {
		return fmt.Errorf("no folder given: pass it as an argument or set scan.folder")
	}

	w, err := writer.New(cfg.Scan.Format)
	if err != nil {
		return err
	}
	outPath := cfg.Scan.Output
	if outPath == "" {
		outPath = "ventas" + w.Extension()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := state.logger
	s := scanner.New(
		source.NewDirectory(cfg.Scan.SkipHidden, logger),
		extractor.New(cfg.ExtractorSettings(), logger),
		scanner.WithEngine(state.engine),
		scanner.WithWorkers(cfg.Scan.Workers),
		scanner.WithLogger(logger),
	)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning: %s\n", cfg.Scan.Folder)

	var progress scanner.ProgressFunc
	if !scanQuiet {
		progress = progressPrinter(cmd.ErrOrStderr())
	}
	report, err := s.Scan(ctx, cfg.Scan.Folder, progress)
	if err != nil {
		return err
	}

	rows := report.Matched()
	if cfg.Scan.IncludeUnmatched {
		rows = report.Results()
	}
	if err := writer.WriteToFile(w, outPath, rows); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	printSummary(out, report, outPath, logger)
	return nil
}

func progressPrinter(w io.Writer) scanner.ProgressFunc {
	var mu sync.Mutex
	return func(done, total int, doc models.Document) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, "  [%d/%d] %s\n", done, total, filepath.Base(doc.Name))
	}
}

func printSummary(out io.Writer, report *scanner.Report, outPath string, logger *zap.Logger) {
	matched := report.Matched()
	fmt.Fprintf(out, "  Found %d document(s)\n", len(report.Outcomes))
	fmt.Fprintf(out, "  Matched: %d  Unmatched: %d  Failed: %d\n",
		len(matched), len(report.Unmatched()), len(report.Failed()))

	byPlatform := map[models.Platform]int{}
	for _, r := range matched {
		byPlatform[r.Platform]++
	}
	for _, p := range []models.Platform{models.PlatformMercadoLibre, models.PlatformShopify, models.PlatformAmazon, models.PlatformUnknown} {
		if n := byPlatform[p]; n > 0 {
			fmt.Fprintf(out, "    %-13s %d\n", p, n)
		}
	}

	for _, f := range report.Failed() {
		fmt.Fprintf(out, "  Failed: %s: %v\n", f.Document.Name, f.Err)
	}

	if len(matched) == 0 {
		fmt.Fprintln(out, "  Warning: No order IDs found. The receipts may be scanned images; try --ocr.")
	}

	fmt.Fprintf(out, "  Output: %s\n", outPath)
	fmt.Fprintln(out, "  Done.")
	logger.Debug("scan summary written", zap.String("run_id", report.RunID), zap.String("output", outPath))
}
