package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

var errNotServing = errors.New("health status is not SERVING")

// WaitForHealth blocks until the gRPC health check reports SERVING or the context ends.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logger *zap.Logger) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	healthClient := grpc_health_v1.NewHealthClient(conn)
	err := retry.Do(
		func() error {
			callCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
			if err != nil {
				return err
			}
			if response.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
				return fmt.Errorf("%w: %s", errNotServing, response.GetStatus().String())
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Debug("waiting for gRPC health", zap.Uint("attempt", attempt+1), zap.Error(err))
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("wait for gRPC health: %w", ctxErr)
		}
		return fmt.Errorf("wait for gRPC health: %w", err)
	}
	logger.Info("gRPC health check is SERVING", zap.String("service", service))
	return nil
}
