package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/fundchain/riskd/internal/application/usecase"
)

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Deps carries everything the REST surface dispatches to. Metrics, Checks
// and a zero RateLimit are optional.
type Deps struct {
	AnalyzeProject *usecase.AnalyzeProject
	AnalyzeBatch   *usecase.AnalyzeBatch
	GetAssessment  *usecase.GetAssessment
	Describe       *usecase.DescribeService
	Metrics        http.Handler
	Checks         map[string]ReadinessCheck
	AllowedOrigins []string
	RateLimit      rate.Limit
	Logger         *slog.Logger
}

// Router serves the scoring API over HTTP.
type Router struct {
	deps Deps
}

// NewRouter builds the chi router with CORS, logging and optional rate
// limiting in front of the API routes.
func NewRouter(deps Deps) http.Handler {
	r := &Router{deps: deps}
	mux := chi.NewRouter()

	mux.Use(LoggingMiddleware(deps.Logger))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	mux.Get("/healthz", r.healthz)
	mux.Get("/readyz", r.readyz)
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	mux.Group(func(api chi.Router) {
		if deps.RateLimit > 0 {
			api.Use(RateLimitMiddleware(rate.NewLimiter(deps.RateLimit, burstFor(deps.RateLimit))))
		}
		api.Get("/", r.wrap(r.handleStatus))
		api.Post("/analyze-project", r.wrap(r.handleAnalyzeProject))
		api.Post("/analyze-batch", r.wrap(r.handleAnalyzeBatch))
		api.Get("/model-info", r.wrap(r.handleModelInfo))
		api.Get("/assessments/{id}", r.wrap(r.handleGetAssessment))
	})

	return mux
}

func burstFor(limit rate.Limit) int {
	return max(1, int(limit))
}
