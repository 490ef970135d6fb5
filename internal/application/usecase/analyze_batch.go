package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fundchain/riskd/internal/application/dto"
	"github.com/fundchain/riskd/internal/domain/model"
)

const defaultBatchConcurrency = 4

// AnalyzeBatch is the use case for scoring many project descriptions. Each
// item succeeds or fails on its own; only a missing model fails the batch.
type AnalyzeBatch struct {
	single      *AnalyzeProject
	concurrency int
}

// NewAnalyzeBatch creates a new AnalyzeBatch use case scoring at most
// concurrency items at once.
func NewAnalyzeBatch(single *AnalyzeProject, concurrency int) *AnalyzeBatch {
	if concurrency < 1 {
		concurrency = defaultBatchConcurrency
	}
	return &AnalyzeBatch{single: single, concurrency: concurrency}
}

// Execute scores every item, preserving input order.
func (uc *AnalyzeBatch) Execute(ctx context.Context, reqs []dto.AnalyzeProjectRequest) (dto.BatchResponse, error) {
	ctx, span := tracer.Start(ctx, "AnalyzeBatch", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(reqs)))

	if err := uc.single.aggregator.Ready(); err != nil {
		return dto.BatchResponse{}, err
	}
	uc.single.metrics.recordBatch(ctx, len(reqs))

	items := make([]model.BatchItem, len(reqs))

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			items[i] = model.FailedItem(model.NewErrorEntry(err, req.Description))
			continue
		}
		g.Go(func() error {
			items[i] = uc.scoreItem(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	batch := model.NewBatchResult(items)
	span.SetAttributes(attribute.Int("batch.failed", batch.FailedCount()))
	return dto.FromBatch(batch), nil
}

func (uc *AnalyzeBatch) scoreItem(ctx context.Context, req dto.AnalyzeProjectRequest) model.BatchItem {
	analysisReq, err := req.ToModel()
	if err != nil {
		return model.FailedItem(model.ErrorEntry{
			Error:              FailureMessage(err),
			DescriptionPreview: model.DescriptionPreview(req.Description),
		})
	}

	result, err := uc.single.analyze(ctx, analysisReq)
	if err != nil {
		return model.FailedItem(model.ErrorEntry{
			Error:              FailureMessage(err),
			DescriptionPreview: model.DescriptionPreview(req.Description),
		})
	}
	return model.SucceededItem(result)
}
