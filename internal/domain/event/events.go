package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundchain/riskd/pkg/events"
)

const (
	// EventTypeProjectAssessed is emitted for every recorded assessment.
	EventTypeProjectAssessed = "risk.project.assessed"

	// EventTypeHighRiskProjectDetected is emitted when the final score bands HIGH.
	EventTypeHighRiskProjectDetected = "risk.project.high_risk_detected"

	aggregateType = "ProjectAssessment"
)

// ProjectAssessed is published when a project description has been scored.
type ProjectAssessed struct {
	events.BaseEvent
	AssessmentID    uuid.UUID `json:"assessment_id"`
	MLScamScore     float64   `json:"ml_scam_score"`
	PlagiarismScore float64   `json:"plagiarism_score"`
	WalletRiskScore float64   `json:"wallet_risk_score"`
	FinalRiskScore  float64   `json:"final_risk_score"`
	RiskLevel       string    `json:"risk_level"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// NewProjectAssessed builds a ProjectAssessed event.
func NewProjectAssessed(
	assessmentID uuid.UUID,
	mlScamScore, plagiarismScore, walletRiskScore, finalRiskScore float64,
	riskLevel string,
	analyzedAt time.Time,
) ProjectAssessed {
	return ProjectAssessed{
		BaseEvent:       events.NewBaseEvent(EventTypeProjectAssessed, assessmentID, aggregateType, analyzedAt),
		AssessmentID:    assessmentID,
		MLScamScore:     mlScamScore,
		PlagiarismScore: plagiarismScore,
		WalletRiskScore: walletRiskScore,
		FinalRiskScore:  finalRiskScore,
		RiskLevel:       riskLevel,
		AnalyzedAt:      analyzedAt,
	}
}

// HighRiskProjectDetected is published when a project is banded HIGH, so
// downstream moderation can hold the listing.
type HighRiskProjectDetected struct {
	events.BaseEvent
	AssessmentID       uuid.UUID `json:"assessment_id"`
	FinalRiskScore     float64   `json:"final_risk_score"`
	DescriptionPreview string    `json:"description_preview"`
	DetectedAt         time.Time `json:"detected_at"`
}

// NewHighRiskProjectDetected builds a HighRiskProjectDetected event.
func NewHighRiskProjectDetected(
	assessmentID uuid.UUID,
	finalRiskScore float64,
	descriptionPreview string,
	detectedAt time.Time,
) HighRiskProjectDetected {
	return HighRiskProjectDetected{
		BaseEvent:          events.NewBaseEvent(EventTypeHighRiskProjectDetected, assessmentID, aggregateType, detectedAt),
		AssessmentID:       assessmentID,
		FinalRiskScore:     finalRiskScore,
		DescriptionPreview: descriptionPreview,
		DetectedAt:         detectedAt,
	}
}
