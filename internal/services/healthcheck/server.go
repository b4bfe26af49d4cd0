// Package healthcheck hosts the gRPC health endpoint that reports whether the
// subtrack database is reachable.
package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	platformgrpc "github.com/louisbranch/subtrack/internal/platform/grpc"
	"github.com/louisbranch/subtrack/internal/platform/timeouts"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the health service name probed by operators.
const Service = "subtrack"

// Config controls the health server.
type Config struct {
	Addr     string
	Pinger   platformgrpc.Pinger
	Interval time.Duration
	Logger   *zap.Logger
}

// Server serves grpc.health.v1.Health with a database-backed status.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	monitor    *platformgrpc.Monitor
	logger     *zap.Logger
}

// New listens on cfg.Addr and registers the health service.
func New(cfg Config) (*Server, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("health address is required")
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = timeouts.HealthProbe
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(Service, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		monitor:    platformgrpc.NewMonitor(healthServer, Service, cfg.Pinger, interval, logger),
		logger:     logger,
	}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve probes the database and answers health checks until ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("health server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		s.monitor.Run(monitorCtx)
	}()
	defer func() {
		stopMonitor()
		<-monitorDone
	}()

	s.logger.Info("health server listening", zap.String("addr", s.Addr()))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve health: %w", err)
	}

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}
