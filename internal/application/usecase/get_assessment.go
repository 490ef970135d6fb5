package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundchain/riskd/internal/application/dto"
	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/port"
)

// ErrRecordingDisabled is returned by lookups when no repository is configured.
var ErrRecordingDisabled = errors.New("assessment recording is disabled")

// GetAssessment is the use case for retrieving a recorded assessment.
type GetAssessment struct {
	repo port.AssessmentRepository
}

// NewGetAssessment creates a new GetAssessment use case. repo may be nil.
func NewGetAssessment(repo port.AssessmentRepository) *GetAssessment {
	return &GetAssessment{repo: repo}
}

// Execute retrieves an assessment by ID.
func (uc *GetAssessment) Execute(ctx context.Context, req dto.GetAssessmentRequest) (dto.AssessmentResponse, error) {
	if uc.repo == nil {
		return dto.AssessmentResponse{}, ErrRecordingDisabled
	}

	assessment, err := uc.repo.FindByID(ctx, req.AssessmentID)
	if err != nil {
		return dto.AssessmentResponse{}, fmt.Errorf("failed to find assessment: %w", err)
	}
	if assessment == nil {
		return dto.AssessmentResponse{}, fmt.Errorf("%w: %s", model.ErrAssessmentNotFound, req.AssessmentID)
	}

	return dto.FromAssessment(assessment), nil
}
