// Package server parses server command flags and runs the web and health
// endpoints over one database.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/louisbranch/subtrack/internal/app"
	entrypoint "github.com/louisbranch/subtrack/internal/platform/cmd"
	"github.com/louisbranch/subtrack/internal/platform/logging"
	"github.com/louisbranch/subtrack/internal/services/auth/session"
	"github.com/louisbranch/subtrack/internal/services/healthcheck"
	"github.com/louisbranch/subtrack/internal/services/web"
	"github.com/louisbranch/subtrack/internal/services/web/platform/requestmeta"
	"go.uber.org/zap"
)

// Config holds server command configuration.
type Config struct {
	HTTPAddr       string        `env:"SUBTRACK_HTTP_ADDR" envDefault:":8080"`
	GRPCHealthAddr string        `env:"SUBTRACK_GRPC_HEALTH_ADDR" envDefault:":8081"`
	DBPath         string        `env:"SUBTRACK_DB_PATH" envDefault:"data/subtrack.db"`
	SessionKey     string        `env:"SUBTRACK_SESSION_KEY"`
	SessionTTL     time.Duration `env:"SUBTRACK_SESSION_TTL" envDefault:"720h"`
	SessionIssuer  string        `env:"SUBTRACK_SESSION_ISSUER" envDefault:"subtrack"`
	FeedBuffer     int           `env:"SUBTRACK_FEED_BUFFER" envDefault:"16"`
	FeedHeartbeat  time.Duration `env:"SUBTRACK_FEED_HEARTBEAT" envDefault:"25s"`
	HealthInterval time.Duration `env:"SUBTRACK_HEALTH_INTERVAL" envDefault:"10s"`
	SchemePolicy   requestmeta.SchemePolicy
	Logging        logging.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The HTTP listen address")
	fs.StringVar(&cfg.GRPCHealthAddr, "grpc-health-addr", cfg.GRPCHealthAddr, "The gRPC health listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The SQLite database path")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Lifetime of a browser session")
	fs.BoolVar(&cfg.SchemePolicy.TrustForwardedProto, "trust-forwarded-proto", cfg.SchemePolicy.TrustForwardedProto, "Honor X-Forwarded-Proto from the fronting proxy")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the server until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	key, err := session.DecodeKey(cfg.SessionKey)
	if err != nil {
		return fmt.Errorf("SUBTRACK_SESSION_KEY: %w", err)
	}
	logger, err := entrypoint.NewLogger(entrypoint.ServiceServer, cfg.Logging)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, logger, func(ctx context.Context) error {
		return serve(ctx, cfg, key, logger)
	})
}

func serve(ctx context.Context, cfg Config, key []byte, logger *zap.Logger) error {
	a, err := app.Open(ctx, app.Options{
		DBPath:        cfg.DBPath,
		SessionKey:    key,
		SessionIssuer: cfg.SessionIssuer,
		SessionTTL:    cfg.SessionTTL,
		FeedBuffer:    cfg.FeedBuffer,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("close app", zap.Error(closeErr))
		}
	}()

	webServer, err := web.NewServer(ctx, web.Config{
		HTTPAddr:      cfg.HTTPAddr,
		Auth:          a.Auth,
		Authenticator: a.Auth,
		Subscriptions: a.Subscriptions,
		Profiles:      a.Profiles,
		Feed:          a.Feed,
		SchemePolicy:  cfg.SchemePolicy,
		FeedHeartbeat: cfg.FeedHeartbeat,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	healthServer, err := healthcheck.New(healthcheck.Config{
		Addr:     cfg.GRPCHealthAddr,
		Pinger:   a.DB,
		Interval: cfg.HealthInterval,
		Logger:   logger.Named("health"),
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	healthErr := make(chan error, 1)
	go func() {
		healthErr <- healthServer.Serve(runCtx)
	}()

	// Open change streams block the HTTP shutdown until the feed closes.
	go func() {
		<-runCtx.Done()
		a.Feed.Close()
	}()

	webErr := webServer.ListenAndServe(runCtx)
	cancel()
	return errors.Join(webErr, <-healthErr)
}
