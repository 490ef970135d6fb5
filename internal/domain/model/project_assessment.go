package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fundchain/riskd/internal/domain/event"
	"github.com/fundchain/riskd/internal/domain/valueobject"
	"github.com/fundchain/riskd/pkg/events"
)

// ProjectAssessment is the aggregate root for a recorded risk analysis.
type ProjectAssessment struct {
	events.EventCollector
	analyzedAt      time.Time
	createdAt       time.Time
	description     string
	riskLevel       valueobject.RiskLevel
	result          AnalysisResult
	referenceCount  int
	walletAgeDays   int
	pastInvestments int
	id              uuid.UUID
}

// NewProjectAssessment records a scored request. It raises ProjectAssessed,
// plus HighRiskProjectDetected when the final score bands HIGH.
func NewProjectAssessment(req AnalysisRequest, result AnalysisResult, analyzedAt time.Time) (*ProjectAssessment, error) {
	if req.IsZero() {
		return nil, fmt.Errorf("analysis request is required")
	}
	if analyzedAt.IsZero() {
		return nil, fmt.Errorf("analysis time is required")
	}

	analyzedAt = analyzedAt.UTC()
	a := &ProjectAssessment{
		id:              uuid.New(),
		description:     req.Description(),
		referenceCount:  len(req.existingDescriptions),
		walletAgeDays:   req.WalletAgeDays(),
		pastInvestments: req.PastInvestments(),
		result:          result,
		riskLevel:       result.RiskLevel(),
		analyzedAt:      analyzedAt,
		createdAt:       analyzedAt,
	}

	a.Record(event.NewProjectAssessed(
		a.id,
		result.MLScamScore(), result.PlagiarismScore(), result.WalletRiskScore(), result.FinalRiskScore(),
		a.riskLevel.String(),
		analyzedAt,
	))
	if a.riskLevel.Equal(valueobject.RiskLevelHigh) {
		a.Record(event.NewHighRiskProjectDetected(
			a.id, result.FinalRiskScore(), DescriptionPreview(a.description), analyzedAt,
		))
	}

	return a, nil
}

// ReconstructProjectAssessment rebuilds an assessment from persisted data
// (no validation, no events).
func ReconstructProjectAssessment(
	id uuid.UUID,
	description string,
	referenceCount, walletAgeDays, pastInvestments int,
	result AnalysisResult,
	riskLevel valueobject.RiskLevel,
	analyzedAt, createdAt time.Time,
) *ProjectAssessment {
	return &ProjectAssessment{
		id:              id,
		description:     description,
		referenceCount:  referenceCount,
		walletAgeDays:   walletAgeDays,
		pastInvestments: pastInvestments,
		result:          result,
		riskLevel:       riskLevel,
		analyzedAt:      analyzedAt,
		createdAt:       createdAt,
	}
}

// --- Accessors ---

func (a *ProjectAssessment) ID() uuid.UUID                    { return a.id }
func (a *ProjectAssessment) Description() string              { return a.description }
func (a *ProjectAssessment) ReferenceCount() int              { return a.referenceCount }
func (a *ProjectAssessment) WalletAgeDays() int               { return a.walletAgeDays }
func (a *ProjectAssessment) PastInvestments() int             { return a.pastInvestments }
func (a *ProjectAssessment) Result() AnalysisResult           { return a.result }
func (a *ProjectAssessment) RiskLevel() valueobject.RiskLevel { return a.riskLevel }
func (a *ProjectAssessment) AnalyzedAt() time.Time            { return a.analyzedAt }
func (a *ProjectAssessment) CreatedAt() time.Time             { return a.createdAt }

// DomainEvents returns all accumulated domain events and clears them.
func (a *ProjectAssessment) DomainEvents() []events.DomainEvent {
	return a.ClearEvents()
}
