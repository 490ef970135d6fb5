package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/port"
)

// AssessmentRecorder persists scored requests and publishes their events.
// Either dependency may be nil; recording never fails the caller.
type AssessmentRecorder struct {
	repo      port.AssessmentRepository
	publisher port.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewAssessmentRecorder creates a recorder. With a nil repository nothing is
// recorded or published.
func NewAssessmentRecorder(repo port.AssessmentRepository, publisher port.EventPublisher, logger *slog.Logger) *AssessmentRecorder {
	return &AssessmentRecorder{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Enabled reports whether assessments are being persisted.
func (r *AssessmentRecorder) Enabled() bool {
	return r != nil && r.repo != nil
}

// Record stores the assessment and publishes its events, logging failures.
func (r *AssessmentRecorder) Record(ctx context.Context, req model.AnalysisRequest, result model.AnalysisResult) {
	if !r.Enabled() {
		return
	}

	assessment, err := model.NewProjectAssessment(req, result, r.now())
	if err != nil {
		r.logger.WarnContext(ctx, "failed to build assessment", "error", err)
		return
	}

	if err := r.repo.Save(ctx, assessment); err != nil {
		r.logger.WarnContext(ctx, "failed to save assessment",
			"assessment_id", assessment.ID().String(),
			"error", err,
		)
		return
	}

	evts := assessment.DomainEvents()
	if r.publisher == nil || len(evts) == 0 {
		return
	}
	if err := r.publisher.Publish(ctx, evts...); err != nil {
		r.logger.WarnContext(ctx, "failed to publish assessment events",
			"assessment_id", assessment.ID().String(),
			"error", err,
		)
	}
}
