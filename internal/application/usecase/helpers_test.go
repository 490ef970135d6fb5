package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/service"
	"github.com/fundchain/riskd/internal/domain/valueobject"
	"github.com/fundchain/riskd/pkg/events"
)

type stubClassifier struct {
	prob float64
	err  error
}

func (s stubClassifier) ScamProbability(_ context.Context, _ string) (float64, error) {
	return s.prob, s.err
}

func (s stubClassifier) Info() model.ClassifierInfo {
	return model.ClassifierInfo{Location: "ml/models/scam_model.json", ModelType: "Pipeline", PipelineSteps: []string{"tfidf", "clf"}}
}

type mockAssessmentRepository struct {
	mu           sync.Mutex
	saved        []*model.ProjectAssessment
	saveFunc     func(ctx context.Context, a *model.ProjectAssessment) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*model.ProjectAssessment, error)
}

func (m *mockAssessmentRepository) Save(ctx context.Context, a *model.ProjectAssessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, a); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *mockAssessmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ProjectAssessment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockEventPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evts...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadedAggregator(prob float64) *service.RiskAggregator {
	return service.NewRiskAggregator(service.ModelState{
		Classifier: stubClassifier{prob: prob},
		Location:   "ml/models/scam_model.json",
	}, valueobject.ScoreWeights{})
}

func unloadedAggregator() *service.RiskAggregator {
	return service.NewRiskAggregator(service.ModelState{Location: "ml/models/scam_model.json"}, valueobject.ScoreWeights{})
}

func intPtr(v int) *int { return &v }
