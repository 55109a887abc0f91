package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/order-scanner/internal/config"
	"github.com/insightdelivered/order-scanner/internal/logging"
	"github.com/insightdelivered/order-scanner/internal/parser"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

// state holds what every subcommand needs, built once before it runs.
var state struct {
	cfg    *config.Config
	logger *zap.Logger
	engine *parser.Engine
}

var rootCmd = &cobra.Command{
	Use:   "order-scanner",
	Short: "Extract order data from Venta DM sales receipts",
	Long: `order-scanner reads sales-receipt PDFs and extracts the sales platform
(MercadoLibre, Shopify, Amazon), the order identifier, the invoice folio
and the total amount. Results are exported to CSV or Excel, or served
over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if state.logger != nil {
			_ = state.logger.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(scanCmd, extractCmd, serveCmd, versionCmd)
}

func setup() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	engine, err := parser.New(cfg.Thresholds)
	if err != nil {
		return err
	}

	state.cfg = cfg
	state.logger = logger
	state.engine = engine
	return nil
}
