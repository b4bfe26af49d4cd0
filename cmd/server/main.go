// Package main starts the subtrack web and health servers.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	servercmd "github.com/louisbranch/subtrack/internal/cmd/server"
	"github.com/louisbranch/subtrack/internal/platform/config"
)

func main() {
	cfg, err := servercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := servercmd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to serve: %v", err)
	}
}
