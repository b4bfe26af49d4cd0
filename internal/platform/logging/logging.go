// Package logging builds the structured loggers shared by subtrack processes.
//
// Loggers are injected and named per component (for example
// logger.Named("store")). Tests use [Test] or [TestObserved]; [New] is
// reserved for process startup.
package logging

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// Format selects the log encoding.
type Format string

const (
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
	// FormatConsole writes human-readable lines for local development.
	FormatConsole Format = "console"
)

// Config holds logger settings loaded from the environment.
type Config struct {
	Level  string `env:"SUBTRACK_LOG_LEVEL" envDefault:"info"`
	Format Format `env:"SUBTRACK_LOG_FORMAT" envDefault:"json"`
}

// New returns a logger for cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	var zcfg zap.Config
	switch Format(strings.ToLower(strings.TrimSpace(string(cfg.Format)))) {
	case FormatJSON, "":
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case FormatConsole:
		zcfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Test returns a logger that writes through tb.
func Test(tb testing.TB) *zap.Logger {
	tb.Helper()
	return zaptest.NewLogger(tb, zaptest.Level(zapcore.DebugLevel))
}

// TestObserved returns a logger whose entries at lvl or above are captured for
// assertions.
func TestObserved(tb testing.TB, lvl zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	tb.Helper()
	core, logs := observer.New(lvl)
	return zap.New(core), logs
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
