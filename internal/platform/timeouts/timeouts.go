// Package timeouts defines shared timeout constants used across subtrack
// processes.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP or gRPC server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StoreCall caps a single database round trip issued by a request handler.
const StoreCall = 3 * time.Second

// FeedHeartbeat is the interval between keepalive frames on change-feed
// streams so idle proxies do not drop the connection.
const FeedHeartbeat = 25 * time.Second

// HealthProbe is the interval between database probes behind the gRPC health
// service.
const HealthProbe = 10 * time.Second
