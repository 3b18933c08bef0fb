// Package grpc runs the side-car gRPC server that exposes the standard
// health service (grpc.health.v1.Health) for the API.
//
// The health status follows the document store: SERVING while a ping
// succeeds, NOT_SERVING otherwise. Orchestrators that speak gRPC health
// checks can probe it without going through HTTP.
//
// Usage in server bootstrap:
//
//	srv, lis, err := grpc.Start(config.GRPCPort(), mongo)
//	// ...run until signal...
//	grpc.Stop(srv)
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/neomdavid/IAX-ROLEX-backend/pkg/logger"
	"github.com/neomdavid/IAX-ROLEX-backend/pkg/metrics"
)

// ServiceName is the health service name answered besides "".
const ServiceName = "rolex.api"

const pingTimeout = 2 * time.Second

// ─── Prometheus metrics ───────────────────────────────────────────────────────

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rolex",
		Subsystem: "grpc",
		Name:      "server_handled_total",
		Help:      "Total number of gRPC calls completed by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rolex",
		Subsystem: "grpc",
		Name:      "server_handling_seconds",
		Help:      "Histogram of gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"grpc_method"})
)

func init() {
	metrics.DefaultRegistry.MustRegister(requestsTotal, requestDuration)
}

// ─── Interceptors ─────────────────────────────────────────────────────────────

// recoveryInterceptor turns a handler panic into codes.Internal.
func recoveryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// loggingInterceptor logs each unary RPC with its duration and result.
func loggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	logger.Debug("grpc: request",
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"code", status.Code(err).String(),
	)
	return resp, err
}

func metricsInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	requestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	requestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	return resp, err
}

// ─── Health service ───────────────────────────────────────────────────────────

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer implements grpc_health_v1.HealthServer over a Pinger.
// A nil Pinger always reports SERVING.
type HealthServer struct {
	grpc_health_v1.UnimplementedHealthServer
	pinger Pinger
}

func NewHealthServer(p Pinger) *HealthServer {
	return &HealthServer{pinger: p}
}

func (h *HealthServer) Check(
	ctx context.Context,
	req *grpc_health_v1.HealthCheckRequest,
) (*grpc_health_v1.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}
	return &grpc_health_v1.HealthCheckResponse{Status: h.status(ctx)}, nil
}

// Watch sends the current status once and returns.
func (h *HealthServer) Watch(
	req *grpc_health_v1.HealthCheckRequest,
	stream grpc_health_v1.Health_WatchServer,
) error {
	resp, err := h.Check(stream.Context(), req)
	if err != nil {
		return err
	}
	return stream.Send(resp)
}

func (h *HealthServer) status(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if h.pinger == nil {
		return grpc_health_v1.HealthCheckResponse_SERVING
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := h.pinger.Ping(ctx); err != nil {
		logger.Warn("grpc: health ping failed", "error", err)
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

// ─── Public API ───────────────────────────────────────────────────────────────

// NewServer builds a server with the interceptor chain and the health
// service registered, without listening.
func NewServer(p Pinger) *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recoveryInterceptor,
			loggingInterceptor,
			metricsInterceptor,
		),
		grpc.MaxRecvMsgSize(4*1024*1024),
		grpc.MaxSendMsgSize(4*1024*1024),
	)
	grpc_health_v1.RegisterHealthServer(srv, NewHealthServer(p))

	// grpcurl works without proto files.
	reflection.Register(srv)
	return srv
}

// Start listens on port and serves in the background. Callers stop it
// with Stop.
func Start(port string, p Pinger) (*grpc.Server, net.Listener, error) {
	addr := ":" + port

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("grpc: listen on %s: %w", addr, err)
	}

	srv := NewServer(p)
	logger.Info("gRPC health server starting", "addr", lis.Addr().String())

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()

	return srv, lis, nil
}

// Stop waits for in-flight RPCs and shuts the server down.
func Stop(srv *grpc.Server) {
	if srv == nil {
		return
	}
	logger.Info("gRPC health server shutting down")
	srv.GracefulStop()
}
