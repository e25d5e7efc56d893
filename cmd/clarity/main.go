package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clarity_engine/internal/infrastructure/configloader"
	"clarity_engine/internal/pkg/logger"
)

const defaultConfigPath = "config/config.yml"

var (
	configPath string
	cfg        *configloader.Config
	zapLogger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "clarity",
	Short:         "Explains transactions before they are signed and scans wallets for risk",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = configloader.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		zapLogger, err = logger.NewZapLogger(cfg.Logging.Level, cfg.Logging.Development)
		if err != nil {
			return fmt.Errorf("failed to initialize zap logger: %w", err)
		}
		logger.InitWithZap(zapLogger, cfg.Logging.Level)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLogger != nil {
			_ = zapLogger.Sync()
		}
	},
}

func init() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = defaultConfigPath
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "path to the YAML config file (env CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd, simulateCmd, scanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
