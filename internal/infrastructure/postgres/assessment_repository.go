package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/valueobject"
	"github.com/fundchain/riskd/pkg/events"
	pkgpostgres "github.com/fundchain/riskd/pkg/postgres"
)

const selectAssessment = `
	SELECT id, description, reference_count, wallet_age_days, past_investments,
		ml_scam_score, plagiarism_score, wallet_risk_score, final_risk_score,
		risk_level, analyzed_at, created_at
	FROM project_assessments
`

// AssessmentRepository implements port.AssessmentRepository using PostgreSQL.
// Pending domain events are written to assessment_events in the same
// transaction as the assessment row.
type AssessmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssessmentRepository creates a new PostgreSQL-backed assessment repository.
func NewAssessmentRepository(pool *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{pool: pool}
}

// Save inserts the assessment and its pending events.
func (r *AssessmentRepository) Save(ctx context.Context, assessment *model.ProjectAssessment) error {
	envelopes := make([]events.Envelope, 0, len(assessment.Events()))
	for _, evt := range assessment.Events() {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		envelopes = append(envelopes, env)
	}

	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertAssessment(ctx, tx, assessment); err != nil {
			return err
		}
		return insertEvents(ctx, tx, assessment.ID(), envelopes)
	})
}

func insertAssessment(ctx context.Context, q pkgpostgres.Querier, a *model.ProjectAssessment) error {
	result := a.Result()
	_, err := q.Exec(ctx, `
		INSERT INTO project_assessments (
			id, description, reference_count, wallet_age_days, past_investments,
			ml_scam_score, plagiarism_score, wallet_risk_score, final_risk_score,
			risk_level, analyzed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID(),
		a.Description(),
		a.ReferenceCount(),
		a.WalletAgeDays(),
		a.PastInvestments(),
		result.MLScamScore(),
		result.PlagiarismScore(),
		result.WalletRiskScore(),
		result.FinalRiskScore(),
		a.RiskLevel().String(),
		a.AnalyzedAt(),
		a.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

func insertEvents(ctx context.Context, q pkgpostgres.Querier, assessmentID uuid.UUID, envelopes []events.Envelope) error {
	if len(envelopes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, env := range envelopes {
		batch.Queue(
			`INSERT INTO assessment_events (id, assessment_id, event_type, payload, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
			env.ID, assessmentID, env.EventType, []byte(env.Payload), env.OccurredAt,
		)
	}

	results := q.SendBatch(ctx, batch)
	for _, env := range envelopes {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to save event %s: %w", env.EventType, err)
		}
	}
	return results.Close()
}

// FindByID retrieves an assessment by its unique identifier. It returns nil
// without error when none exists.
func (r *AssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ProjectAssessment, error) {
	return scanAssessment(r.pool.QueryRow(ctx, selectAssessment+` WHERE id = $1`, id))
}

// EventTypes lists the event types recorded for an assessment, oldest first.
func (r *AssessmentRepository) EventTypes(ctx context.Context, assessmentID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT event_type FROM assessment_events WHERE assessment_id = $1 ORDER BY occurred_at, event_type`,
		assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment events: %w", err)
	}

	types, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan assessment events: %w", err)
	}
	return types, nil
}

func scanAssessment(row pgx.Row) (*model.ProjectAssessment, error) {
	var (
		id              uuid.UUID
		description     string
		referenceCount  int
		walletAgeDays   int
		pastInvestments int
		mlScamScore     float64
		plagiarismScore float64
		walletRiskScore float64
		finalRiskScore  float64
		riskLevelStr    string
		analyzedAt      time.Time
		createdAt       time.Time
	)

	err := row.Scan(
		&id, &description, &referenceCount, &walletAgeDays, &pastInvestments,
		&mlScamScore, &plagiarismScore, &walletRiskScore, &finalRiskScore,
		&riskLevelStr, &analyzedAt, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}

	riskLevel, err := valueobject.RiskLevelFromString(riskLevelStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk level: %w", err)
	}

	result, err := model.NewAnalysisResult(mlScamScore, plagiarismScore, walletRiskScore, finalRiskScore)
	if err != nil {
		return nil, fmt.Errorf("stored assessment %s is invalid: %w", id, err)
	}

	return model.ReconstructProjectAssessment(
		id, description, referenceCount, walletAgeDays, pastInvestments,
		result, riskLevel, analyzedAt.UTC(), createdAt.UTC(),
	), nil
}
