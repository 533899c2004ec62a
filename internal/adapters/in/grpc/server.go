// Package grpc serves the standard gRPC health service of the dispatch
// process, backed by periodic dependency checks.
package grpc

import (
	"context"
	"time"

	"dispatch/internal/pkg/logger"
	"dispatch/internal/pkg/metrics"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the health service name reported for the dispatch core.
const ServiceName = "delivery.dispatch"

// Check probes one dependency.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Server wraps a grpc.Server with the health service registered.
type Server struct {
	*grpc.Server
	health *health.Server
	log    *logger.Logger
}

func NewServer(m *metrics.Collector, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With("component", "grpc")

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingUnaryInterceptor(log),
			m.UnaryServerInterceptor(),
		),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{Server: srv, health: hs, log: log}
}

// SetServing reports the overall and the dispatch service status.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Probe runs every check once and reports SERVING only if all pass.
func (s *Server) Probe(ctx context.Context, timeout time.Duration, checks ...Check) bool {
	ok := true
	for _, check := range checks {
		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		err := check.Probe(probeCtx)
		cancel()
		if err != nil {
			s.log.Warn("dependency check failed", "dependency", check.Name, "error", err)
			ok = false
		}
	}
	s.SetServing(ok)
	return ok
}

// WatchHealth probes the checks every interval until ctx is done, then
// marks the server as shutting down.
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration, checks ...Check) {
	s.Probe(ctx, interval, checks...)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.Probe(ctx, interval, checks...)
		}
	}
}

func loggingUnaryInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Warn("rpc failed",
				"method", info.FullMethod,
				"code", status.Code(err).String(),
				"duration", time.Since(start),
				"error", err,
			)
		} else {
			log.Debug("rpc handled", "method", info.FullMethod, "duration", time.Since(start))
		}
		return resp, err
	}
}
