// Package main provides maintenance utilities.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/subtrack/internal/cmd/maintenance"
	"github.com/louisbranch/subtrack/internal/platform/config"
)

func main() {
	cfg, err := maintenance.ParseConfig()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := maintenance.Run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
