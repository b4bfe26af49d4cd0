package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger is the dependency probed by a Monitor.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Monitor keeps one service's health status in sync with a Pinger.
type Monitor struct {
	server   *health.Server
	service  string
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewMonitor builds a monitor that writes statuses into server.
func NewMonitor(server *health.Server, service string, pinger Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		server:   server,
		service:  service,
		pinger:   pinger,
		interval: interval,
		timeout:  time.Second,
		logger:   logger,
	}
}

// Check probes once and publishes the resulting status.
func (m *Monitor) Check(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if m.pinger == nil {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := m.pinger.PingContext(pingCtx)
		cancel()
		if err != nil {
			m.logger.Warn("health probe failed", zap.String("service", m.service), zap.Error(err))
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	if m.server != nil {
		m.server.SetServingStatus(m.service, status)
	}
	return status
}

// Run probes until ctx ends, then marks the service NOT_SERVING.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			if m.server != nil {
				m.server.SetServingStatus(m.service, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
			}
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
