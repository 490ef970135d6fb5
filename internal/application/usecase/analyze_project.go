package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fundchain/riskd/internal/application/dto"
	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/service"
)

// AnalyzeProject is the use case for scoring a single project description.
type AnalyzeProject struct {
	aggregator *service.RiskAggregator
	recorder   *AssessmentRecorder
	metrics    *Metrics
}

// NewAnalyzeProject creates a new AnalyzeProject use case. recorder and
// metrics may be nil.
func NewAnalyzeProject(aggregator *service.RiskAggregator, recorder *AssessmentRecorder, metrics *Metrics) *AnalyzeProject {
	return &AnalyzeProject{
		aggregator: aggregator,
		recorder:   recorder,
		metrics:    metrics,
	}
}

// Execute validates, scores and records one request.
func (uc *AnalyzeProject) Execute(ctx context.Context, req dto.AnalyzeProjectRequest) (dto.AnalysisResponse, error) {
	ctx, span := tracer.Start(ctx, "AnalyzeProject", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	analysisReq, err := req.ToModel()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return dto.AnalysisResponse{}, err
	}

	result, err := uc.analyze(ctx, analysisReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return dto.AnalysisResponse{}, err
	}

	span.SetAttributes(
		attribute.Float64("risk.final_score", result.FinalRiskScore()),
		attribute.String("risk.level", result.RiskLevel().String()),
	)
	return dto.FromResult(result), nil
}

// analyze is shared with the batch use case.
func (uc *AnalyzeProject) analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	started := time.Now()

	result, err := uc.aggregator.Analyze(ctx, req)
	if err != nil {
		uc.metrics.recordAnalysis(ctx, outcomeOf(err), started)
		return model.AnalysisResult{}, err
	}
	uc.metrics.recordAnalysis(ctx, "scored", started)

	uc.recorder.Record(ctx, req, result)
	return result, nil
}

// FailureMessage renders a scoring failure for clients: validation and
// availability errors verbatim, anything else as an analysis error.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrModelUnavailable):
		return err.Error()
	default:
		return fmt.Sprintf("Error during analysis: %v", err)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "invalid"
	case errors.Is(err, model.ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "failed"
	}
}
