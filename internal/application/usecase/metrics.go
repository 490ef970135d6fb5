package usecase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/fundchain/riskd/internal/application/usecase"

var tracer trace.Tracer = otel.Tracer(instrumentationName)

// Metrics holds the scoring instruments. A nil *Metrics records nothing.
type Metrics struct {
	analyses  metric.Int64Counter
	duration  metric.Float64Histogram
	batchSize metric.Int64Histogram
}

// NewMetrics registers the scoring instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(instrumentationName)

	analyses, err := meter.Int64Counter("riskd_analyses_total",
		metric.WithDescription("Project analyses by outcome."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyses counter: %w", err)
	}

	duration, err := meter.Float64Histogram("riskd_analysis_duration_seconds",
		metric.WithDescription("Time spent scoring one project."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	batchSize, err := meter.Int64Histogram("riskd_batch_size",
		metric.WithDescription("Items per batch request."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch size histogram: %w", err)
	}

	return &Metrics{analyses: analyses, duration: duration, batchSize: batchSize}, nil
}

func (m *Metrics) recordAnalysis(ctx context.Context, outcome string, started time.Time) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.analyses.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(started).Seconds(), attrs)
}

func (m *Metrics) recordBatch(ctx context.Context, size int) {
	if m == nil {
		return
	}
	m.batchSize.Record(ctx, int64(size))
}
