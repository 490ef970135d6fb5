package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/fundchain/riskd/internal/application/usecase"
	"github.com/fundchain/riskd/internal/domain/port"
	"github.com/fundchain/riskd/internal/domain/service"
	"github.com/fundchain/riskd/internal/infrastructure/config"
	infrakafka "github.com/fundchain/riskd/internal/infrastructure/kafka"
	"github.com/fundchain/riskd/internal/infrastructure/ml"
	infrapostgres "github.com/fundchain/riskd/internal/infrastructure/postgres"
	grpcpresentation "github.com/fundchain/riskd/internal/presentation/grpc"
	"github.com/fundchain/riskd/internal/presentation/rest"
	"github.com/fundchain/riskd/pkg/auth"
	pkgkafka "github.com/fundchain/riskd/pkg/kafka"
	"github.com/fundchain/riskd/pkg/observability"
	pkgpostgres "github.com/fundchain/riskd/pkg/postgres"
	"github.com/fundchain/riskd/pkg/tlsutil"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API over HTTP and gRPC",
		Long: `Load the classifier artifact once and serve the scoring API.

Assessment recording is enabled when DATABASE_URL is set and event
publishing when KAFKA_BROKERS is set. A missing artifact does not stop the
server; scoring requests fail until it is restarted with a valid model.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending database migrations before serving")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, migrate bool) error {
	logger := newLogger(cfg, os.Stdout)
	logger.Info("starting riskd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"environment", cfg.Environment,
	)

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName:    serviceName,
			ServiceVersion: usecase.ServiceVersion,
			Endpoint:       cfg.OTLPEndpoint,
			Insecure:       true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:       serviceName,
		RuntimeCollectors: true,
	})
	if err != nil {
		return err
	}
	defer meterProvider.Shutdown(context.Background())

	metrics, err := usecase.NewMetrics(meterProvider)
	if err != nil {
		return err
	}

	weights, err := cfg.ScoreWeights()
	if err != nil {
		return err
	}
	state := ml.LoadModelState(ctx, cfg.ModelPath, cfg.ObjectStore, logger)
	aggregator := service.NewRiskAggregator(state, weights)

	var (
		repo      port.AssessmentRepository
		publisher port.EventPublisher
		checks    = map[string]rest.ReadinessCheck{}
	)

	if cfg.RecordingEnabled() {
		pool, err := openDatabase(ctx, cfg, migrate, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		repo = infrapostgres.NewAssessmentRepository(pool)
		checks["database"] = func(ctx context.Context) error {
			return pkgpostgres.HealthCheck(ctx, pool)
		}
	} else {
		logger.Info("DATABASE_URL not set, assessment recording disabled")
	}

	if cfg.RecordingEnabled() && cfg.PublishingEnabled() {
		producer, err := pkgkafka.NewProducer(cfg.Kafka())
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer producer.Close()

		publisher = infrakafka.NewPublisher(producer, cfg.KafkaTopic, logger)
		logger.Info("publishing assessment events", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	// Wire use cases.
	recorder := usecase.NewAssessmentRecorder(repo, publisher, logger)
	analyzeProjectUC := usecase.NewAnalyzeProject(aggregator, recorder, metrics)
	analyzeBatchUC := usecase.NewAnalyzeBatch(analyzeProjectUC, cfg.BatchConcurrency)
	getAssessmentUC := usecase.NewGetAssessment(repo)
	describeUC := usecase.NewDescribeService(aggregator)

	// gRPC server.
	grpcCfg, err := grpcServerConfig(cfg, state.Loaded())
	if err != nil {
		return err
	}
	grpcHandler := grpcpresentation.NewRiskServiceHandler(analyzeProjectUC, analyzeBatchUC, getAssessmentUC, describeUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, grpcCfg, logger)

	// HTTP server.
	httpServer := &http.Server{
		Addr: cfg.HTTPAddress(),
		Handler: rest.NewRouter(rest.Deps{
			AnalyzeProject: analyzeProjectUC,
			AnalyzeBatch:   analyzeBatchUC,
			GetAssessment:  getAssessmentUC,
			Describe:       describeUC,
			Metrics:        metricsHandler,
			Checks:         checks,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimit:      rate.Limit(cfg.RateLimitRPS),
			Logger:         logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("riskd started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"model_loaded", state.Loaded(),
		"recording", cfg.RecordingEnabled(),
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	logger.Info("shutting down riskd")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("riskd stopped")
	return runErr
}

func openDatabase(ctx context.Context, cfg *config.Config, migrate bool, logger *slog.Logger) (*pgxpool.Pool, error) {
	if migrate {
		if err := pkgpostgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied", "source", cfg.MigrationsPath)
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, pkgpostgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database")
	return pool, nil
}

func grpcServerConfig(cfg *config.Config, modelLoaded bool) (grpcpresentation.ServerConfig, error) {
	out := grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		Reflection:  cfg.GRPCReflection,
		ModelLoaded: modelLoaded,
	}

	switch {
	case cfg.JWTPublicKeyFile != "":
		svc, err := auth.NewJWTServiceFromFile(cfg.JWTPublicKeyFile, cfg.JWTIssuer)
		if err != nil {
			return out, err
		}
		out.JWT = svc
	case cfg.JWTSecret != "":
		svc, err := auth.NewJWTService(auth.JWTConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
		if err != nil {
			return out, err
		}
		out.JWT = svc
	}

	if cfg.GRPCTLSCertFile != "" {
		creds, err := tlsutil.ServerCredentials(cfg.GRPCTLSCertFile, cfg.GRPCTLSKeyFile)
		if err != nil {
			return out, err
		}
		out.Creds = creds
	}

	return out, nil
}
