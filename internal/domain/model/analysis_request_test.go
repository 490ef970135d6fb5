package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundchain/riskd/internal/domain/model"
)

func TestNewAnalysisRequest(t *testing.T) {
	t.Run("builds a valid request", func(t *testing.T) {
		refs := []string{"prior one", "prior two"}

		req, err := model.NewAnalysisRequest("Solar farm in Kenya", refs, 30, 2)

		require.NoError(t, err)
		assert.Equal(t, "Solar farm in Kenya", req.Description())
		assert.Equal(t, refs, req.ExistingDescriptions())
		assert.Equal(t, 30, req.WalletAgeDays())
		assert.Equal(t, 2, req.PastInvestments())
		assert.False(t, req.IsZero())
	})

	t.Run("accepts zero counters and no references", func(t *testing.T) {
		req, err := model.NewAnalysisRequest("x", nil, 0, 0)

		require.NoError(t, err)
		assert.Empty(t, req.ExistingDescriptions())
	})

	t.Run("is not affected by later changes to the caller's slice", func(t *testing.T) {
		refs := []string{"original"}
		req, err := model.NewAnalysisRequest("x", refs, 0, 0)
		require.NoError(t, err)

		refs[0] = "mutated"
		got := req.ExistingDescriptions()
		got[0] = "mutated again"

		assert.Equal(t, []string{"original"}, req.ExistingDescriptions())
	})

	tests := []struct {
		name          string
		description   string
		walletAgeDays int
		investments   int
		field         string
	}{
		{name: "empty description", description: "", field: "description"},
		{name: "whitespace description", description: "  \n\t", field: "description"},
		{name: "negative wallet age", description: "x", walletAgeDays: -1, field: "wallet_age_days"},
		{name: "negative investments", description: "x", investments: -3, field: "past_investments"},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := model.NewAnalysisRequest(tt.description, nil, tt.walletAgeDays, tt.investments)

			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))

			var vErr *model.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestNewAnalysisResult(t *testing.T) {
	t.Run("accepts scores in the unit interval", func(t *testing.T) {
		res, err := model.NewAnalysisResult(0.9123, 1, 0.7, 0.9024)

		require.NoError(t, err)
		assert.Equal(t, 0.9123, res.MLScamScore())
		assert.Equal(t, 1.0, res.PlagiarismScore())
		assert.Equal(t, 0.7, res.WalletRiskScore())
		assert.Equal(t, 0.9024, res.FinalRiskScore())
		assert.Equal(t, "HIGH", res.RiskLevel().String())
	})

	t.Run("rejects out of range scores", func(t *testing.T) {
		_, err := model.NewAnalysisResult(1.2, 0, 0, 0)
		assert.ErrorContains(t, err, "ml_scam_score")

		_, err = model.NewAnalysisResult(0, 0, 0, -0.1)
		assert.ErrorContains(t, err, "final_risk_score")
	})
}

func TestErrors(t *testing.T) {
	t.Run("model unavailable names the location", func(t *testing.T) {
		cause := errors.New("open ml/models/scam_model.json: no such file or directory")
		err := &model.ModelUnavailableError{Location: "ml/models/scam_model.json", Cause: cause}

		assert.Equal(t, "ML model not loaded. Please ensure ml/models/scam_model.json exists.", err.Error())
		assert.ErrorIs(t, err, model.ErrModelUnavailable)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("scoring error wraps its cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := &model.ScoringError{Stage: "classifier", Err: cause}

		assert.Equal(t, "classifier: boom", err.Error())
		assert.ErrorIs(t, err, model.ErrScoring)
		assert.ErrorIs(t, err, cause)
	})
}
