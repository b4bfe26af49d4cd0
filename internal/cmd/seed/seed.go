// Package seed parses seed command flags and loads a fixture into the
// database.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/louisbranch/subtrack/internal/app"
	entrypoint "github.com/louisbranch/subtrack/internal/platform/cmd"
	"github.com/louisbranch/subtrack/internal/platform/logging"
	"github.com/louisbranch/subtrack/internal/seed"
	"go.uber.org/zap"
)

// Config holds seed command configuration.
type Config struct {
	DBPath  string `env:"SUBTRACK_DB_PATH" envDefault:"data/subtrack.db"`
	Fixture string `env:"SUBTRACK_SEED_FIXTURE"`
	// HashCost overrides the bcrypt cost; zero keeps the default.
	HashCost int
	DryRun   bool
	Logging  logging.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite database path")
	fs.StringVar(&cfg.Fixture, "fixture", cfg.Fixture, "YAML fixture to load (default: embedded demo fixture)")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "validate the fixture without writing")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the configured fixture and reports what changed to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	fixture, err := seed.LoadFile(cfg.Fixture)
	if err != nil {
		return err
	}
	if cfg.DryRun {
		fmt.Fprintf(out, "fixture ok: %d user(s)\n", len(fixture.Users))
		return nil
	}

	logger, err := entrypoint.NewLogger(entrypoint.ServiceSeed, cfg.Logging)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, logger, func(ctx context.Context) error {
		a, err := app.Open(ctx, app.Options{DBPath: cfg.DBPath, HashCost: cfg.HashCost, Logger: logger})
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := a.Close(); closeErr != nil {
				logger.Warn("close app", zap.Error(closeErr))
			}
		}()

		runner, err := seed.NewRunner(a.Auth, a.Profiles, a.Subscriptions, logger)
		if err != nil {
			return err
		}
		result, err := runner.Run(ctx, fixture)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "users: %d created, %d reused\n", result.UsersCreated, result.UsersReused)
		fmt.Fprintf(out, "profiles: %d updated\n", result.ProfilesUpdated)
		fmt.Fprintf(out, "subscriptions: %d created, %d skipped\n", result.SubscriptionsCreated, result.SubscriptionsSkipped)
		return nil
	})
}
