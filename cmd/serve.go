package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/order-scanner/internal/api"
	"github.com/insightdelivered/order-scanner/internal/extractor"
)

var (
	servePort      string
	serveStaticDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction API over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default from server.port)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static", "", "directory with the web client to serve at /")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := state.cfg
	logger := state.logger
	if servePort != "" {
		cfg.Server.Port = servePort
	}

	app := api.NewApp(&api.Handler{
		Engine:    state.engine,
		Extractor: extractor.New(cfg.ExtractorSettings(), logger),
		Logger:    logger,
		Version:   version,
		StaticDir: serveStaticDir,
	}, cfg.Server.BodyLimitMB)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("starting server", zap.String("addr", addr), zap.Bool("ocr", cfg.Extractor.OCR))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
