package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weathernow/internal/config"
	"github.com/vzahanych/weathernow/pkg/logger"
	"github.com/vzahanych/weathernow/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	log        *logger.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weathernow",
		Short: "Current weather and a short forecast for any city",
		Long: `WeatherNow resolves a city name with Open-Meteo geocoding and shows the
current conditions plus a short daily forecast. Run without a subcommand to
open the interactive terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context(), cmd.Name())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownServices()
		},
		RunE: runTUI,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(tuiCmd())
	cmd.AddCommand(lookupCmd())
	cmd.AddCommand(serverCmd())

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			if log != nil {
				log.Info("Received shutdown signal", zap.String("signal", sig.String()))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context, command string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stored atomically so it can be swapped at runtime
	config.SetConfig(cfg)

	log, err = newCommandLogger(cfg.Logging, command)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		// tracing is optional; fall back to the no-op tracer
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		tele, _ = telemetry.New(ctx, config.TelemetryConfig{}, cfg.Version)
	}

	log.Debug("Services initialized",
		zap.String("command", command),
		zap.String("environment", cfg.Environment),
		zap.Bool("telemetry_enabled", tele.IsEnabled()))

	return nil
}

// newCommandLogger keeps the interactive UI's screen clean: it only logs
// when output goes to a file.
func newCommandLogger(cfg config.LoggingConfig, command string) (*logger.Logger, error) {
	if isInteractive(command) && !logsToFile(cfg) {
		return logger.NewNop(), nil
	}
	return logger.New(cfg)
}

func isInteractive(command string) bool {
	return command == "weathernow" || command == "tui"
}

func logsToFile(cfg config.LoggingConfig) bool {
	switch cfg.OutputPath {
	case "", "stderr", "stdout":
		return false
	default:
		return true
	}
}

func shutdownServices() error {
	if tele != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tele.Shutdown(ctx); err != nil && log != nil {
			log.Warn("Failed to shut down telemetry", zap.Error(err))
		}
	}
	if log != nil {
		_ = log.Sync()
	}
	return nil
}
