package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundchain/riskd/internal/domain/model"
)

// AssessmentResponse is a recorded assessment.
type AssessmentResponse struct {
	AnalyzedAt      time.Time `json:"analyzed_at"`
	ID              uuid.UUID `json:"id"`
	Description     string    `json:"description"`
	RiskLevel       string    `json:"risk_level"`
	ReferenceCount  int       `json:"reference_count"`
	WalletAgeDays   int       `json:"wallet_age_days"`
	PastInvestments int       `json:"past_investments"`
	AnalysisResponse
}

// GetAssessmentRequest is the input DTO for retrieving an assessment.
type GetAssessmentRequest struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
}

// FromAssessment maps the aggregate to the response DTO.
func FromAssessment(a *model.ProjectAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:               a.ID(),
		Description:      a.Description(),
		RiskLevel:        a.RiskLevel().String(),
		ReferenceCount:   a.ReferenceCount(),
		WalletAgeDays:    a.WalletAgeDays(),
		PastInvestments:  a.PastInvestments(),
		AnalyzedAt:       a.AnalyzedAt(),
		AnalysisResponse: FromResult(a.Result()),
	}
}

// ModelInfoResponse describes the classifier artifact.
type ModelInfoResponse struct {
	Loaded        bool     `json:"loaded"`
	ModelPath     string   `json:"model_path,omitempty"`
	ModelType     string   `json:"model_type,omitempty"`
	PipelineSteps []string `json:"pipeline_steps,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// ServiceStatusResponse is the root status document.
type ServiceStatusResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	ModelLoaded bool   `json:"model_loaded"`
}
