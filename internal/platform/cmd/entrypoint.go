// Package cmd holds the startup helpers shared by every subtrack binary.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/subtrack/internal/platform/config"
	"github.com/louisbranch/subtrack/internal/platform/logging"
	"github.com/louisbranch/subtrack/internal/platform/otel"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// Service identifiers used for telemetry resources and logger names.
const (
	ServiceServer      = "server"
	ServiceSeed        = "seed"
	ServiceMaintenance = "maintenance"
)

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	// Telemetry overrides the environment-derived tracing config.
	Telemetry *otel.Config
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// NewLogger builds the process logger from cfg and names it after service.
func NewLogger(service string, cfg logging.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return logger.Named(strings.TrimSpace(service)), nil
}

// RunWithTelemetry configures tracing and executes a service run loop.
func RunWithTelemetry(ctx context.Context, service string, logger *zap.Logger, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, logger, RunOptions{}, run)
}

// RunWithTelemetryAndOptions configures tracing and executes a service run loop.
func RunWithTelemetryAndOptions(ctx context.Context, service string, logger *zap.Logger, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	logger = logging.OrNop(logger)

	telemetry := options.Telemetry
	if telemetry == nil {
		loaded, err := otel.LoadConfig()
		if err != nil {
			return err
		}
		telemetry = &loaded
	}
	shutdown, err := otel.Setup(ctx, service, *telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = defaultOTelShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("otel shutdown", zap.Error(err))
		}
		_ = logger.Sync()
	}()
	logger.Info("starting", zap.String("service", service))
	return run(ctx)
}
