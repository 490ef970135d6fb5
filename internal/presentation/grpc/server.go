package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/fundchain/riskd/pkg/auth"
)

// ServerConfig holds the optional transport and auth settings.
type ServerConfig struct {
	Address string
	// JWT enables bearer-token auth on RiskService methods when non-nil.
	JWT *auth.JWTService
	// Creds enables TLS when non-nil.
	Creds      credentials.TransportCredentials
	Reflection bool
	// ModelLoaded sets the initial health of RiskService.
	ModelLoaded bool
}

// methodRoles lists the roles admitted per method when auth is enabled.
var methodRoles = map[string][]string{
	MethodAnalyzeProject: {auth.RoleScorer},
	MethodAnalyzeBatch:   {auth.RoleScorer},
	MethodGetAssessment:  {auth.RoleScorer, auth.RoleAuditor},
}

// Server wraps the gRPC server with risk service handlers.
type Server struct {
	address    string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

// NewServer creates a new gRPC server for the risk service.
func NewServer(handler RiskServiceServer, cfg ServerConfig, logger *slog.Logger) *Server {
	interceptors := []grpc.UnaryServerInterceptor{loggingInterceptor(logger)}
	if cfg.JWT != nil {
		interceptors = append(interceptors,
			auth.UnaryAuthInterceptor(cfg.JWT,
				healthpb.Health_Check_FullMethodName,
				healthpb.Health_Watch_FullMethodName,
			),
			auth.MethodRoles(methodRoles),
		)
		logger.Info("gRPC auth enabled")
	}

	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(interceptors...)}
	if cfg.Creds != nil {
		opts = append(opts, grpc.Creds(cfg.Creds))
		logger.Info("gRPC TLS enabled")
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	grpcServer := grpc.NewServer(opts...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	RegisterRiskServiceServer(grpcServer, handler)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	s := &Server{
		address:    cfg.Address,
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
	}
	s.SetModelLoaded(cfg.ModelLoaded)
	return s
}

// SetModelLoaded reports RiskService as SERVING only while a classifier is loaded.
func (s *Server) SetModelLoaded(loaded bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if loaded {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

// Start begins listening and serving gRPC requests.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server starting", slog.String("address", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		logger.InfoContext(ctx, "grpc request",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return resp, err
	}
}
