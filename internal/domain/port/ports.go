package port

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/pkg/events"
)

// TextClassifier is a loaded scam classifier. Implementations are immutable
// after construction and safe for concurrent use.
type TextClassifier interface {
	// ScamProbability returns the probability in [0,1] that the description
	// belongs to the scam class.
	ScamProbability(ctx context.Context, description string) (float64, error)

	// Info describes the loaded artifact.
	Info() model.ClassifierInfo
}

// AssessmentRepository defines the persistence port for recorded assessments.
type AssessmentRepository interface {
	// Save persists a new assessment.
	Save(ctx context.Context, assessment *model.ProjectAssessment) error

	// FindByID returns nil without error when no assessment matches.
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProjectAssessment, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
