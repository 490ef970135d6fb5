package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fundchain/riskd/internal/application/dto"
	"github.com/fundchain/riskd/internal/application/usecase"
	"github.com/fundchain/riskd/internal/domain/event"
	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/port/mocks"
	"github.com/fundchain/riskd/pkg/events"
)

const scamDescription = "Guaranteed 500% returns in 30 days"

func scamRequest() dto.AnalyzeProjectRequest {
	return dto.AnalyzeProjectRequest{
		Description:          scamDescription,
		ExistingDescriptions: []string{scamDescription},
		WalletAgeDays:        intPtr(3),
		PastInvestments:      intPtr(0),
	}
}

func TestAnalyzeProject_Execute(t *testing.T) {
	t.Run("scores a request without recording", func(t *testing.T) {
		uc := usecase.NewAnalyzeProject(loadedAggregator(0.91234567), nil, nil)

		resp, err := uc.Execute(context.Background(), scamRequest())

		require.NoError(t, err)
		assert.Equal(t, 0.9123, resp.MLScamScore)
		assert.Equal(t, 1.0, resp.PlagiarismScore)
		assert.Equal(t, 0.7, resp.WalletRiskScore)
		assert.Equal(t, 0.9024, resp.FinalRiskScore)
	})

	t.Run("records the assessment and publishes both events for a high score", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockAssessmentRepository(ctrl)
		publisher := mocks.NewMockEventPublisher(ctrl)

		var saved *model.ProjectAssessment
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a *model.ProjectAssessment) error {
				saved = a
				return nil
			})
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evts ...events.DomainEvent) error {
				require.Len(t, evts, 2)
				assert.Equal(t, event.EventTypeProjectAssessed, evts[0].EventType())
				assert.Equal(t, event.EventTypeHighRiskProjectDetected, evts[1].EventType())
				return nil
			})

		recorder := usecase.NewAssessmentRecorder(repo, publisher, testLogger())
		uc := usecase.NewAnalyzeProject(loadedAggregator(0.91234567), recorder, nil)

		_, err := uc.Execute(context.Background(), scamRequest())

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, scamDescription, saved.Description())
		assert.Equal(t, 1, saved.ReferenceCount())
		assert.Equal(t, "HIGH", saved.RiskLevel().String())
	})

	t.Run("a failed save does not fail the analysis", func(t *testing.T) {
		repo := &mockAssessmentRepository{
			saveFunc: func(context.Context, *model.ProjectAssessment) error {
				return fmt.Errorf("connection refused")
			},
		}
		publisher := &mockEventPublisher{}
		recorder := usecase.NewAssessmentRecorder(repo, publisher, testLogger())
		uc := usecase.NewAnalyzeProject(loadedAggregator(0.1), recorder, nil)

		resp, err := uc.Execute(context.Background(), scamRequest())

		require.NoError(t, err)
		assert.Equal(t, 0.1, resp.MLScamScore)
		assert.Empty(t, publisher.events)
	})

	t.Run("low scores publish only the assessed event", func(t *testing.T) {
		repo := &mockAssessmentRepository{}
		publisher := &mockEventPublisher{}
		recorder := usecase.NewAssessmentRecorder(repo, publisher, testLogger())
		uc := usecase.NewAnalyzeProject(loadedAggregator(0.1), recorder, nil)

		req := dto.AnalyzeProjectRequest{
			Description:     "Community garden in the park",
			WalletAgeDays:   intPtr(400),
			PastInvestments: intPtr(12),
		}
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 0.06, resp.FinalRiskScore)
		require.Len(t, repo.saved, 1)
		require.Len(t, publisher.events, 1)
		assert.Equal(t, event.EventTypeProjectAssessed, publisher.events[0].EventType())
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		tests := []struct {
			name  string
			req   dto.AnalyzeProjectRequest
			field string
		}{
			{
				name:  "missing wallet age",
				req:   dto.AnalyzeProjectRequest{Description: "x", PastInvestments: intPtr(0)},
				field: "wallet_age_days",
			},
			{
				name:  "missing past investments",
				req:   dto.AnalyzeProjectRequest{Description: "x", WalletAgeDays: intPtr(0)},
				field: "past_investments",
			},
			{
				name:  "blank description",
				req:   dto.AnalyzeProjectRequest{Description: "   ", WalletAgeDays: intPtr(0), PastInvestments: intPtr(0)},
				field: "description",
			},
			{
				name:  "negative wallet age",
				req:   dto.AnalyzeProjectRequest{Description: "x", WalletAgeDays: intPtr(-1), PastInvestments: intPtr(0)},
				field: "wallet_age_days",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := &mockAssessmentRepository{}
				recorder := usecase.NewAssessmentRecorder(repo, nil, testLogger())
				uc := usecase.NewAnalyzeProject(loadedAggregator(0.5), recorder, nil)

				_, err := uc.Execute(context.Background(), tt.req)

				var verr *model.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.field, verr.Field)
				assert.Empty(t, repo.saved)
			})
		}
	})

	t.Run("fails when the model is not loaded", func(t *testing.T) {
		uc := usecase.NewAnalyzeProject(unloadedAggregator(), nil, nil)

		_, err := uc.Execute(context.Background(), scamRequest())

		require.ErrorIs(t, err, model.ErrModelUnavailable)
		assert.Equal(t, "ML model not loaded. Please ensure ml/models/scam_model.json exists.", err.Error())
	})
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation errors are passed through",
			err:  &model.ValidationError{Field: "wallet_age_days", Reason: "is required"},
			want: "wallet_age_days is required",
		},
		{
			name: "model unavailable is passed through",
			err:  &model.ModelUnavailableError{Location: "m.json"},
			want: "ML model not loaded. Please ensure m.json exists.",
		},
		{
			name: "scoring failures are prefixed",
			err:  &model.ScoringError{Stage: "classifier", Err: errors.New("boom")},
			want: "Error during analysis: classifier: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.FailureMessage(tt.err))
		})
	}
}
