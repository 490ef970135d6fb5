package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/service"
	"github.com/fundchain/riskd/internal/domain/valueobject"
)

type stubClassifier struct {
	prob  float64
	err   error
	panic bool
	calls int
}

func (s *stubClassifier) ScamProbability(_ context.Context, _ string) (float64, error) {
	s.calls++
	if s.panic {
		panic("corrupt artifact")
	}
	return s.prob, s.err
}

func (s *stubClassifier) Info() model.ClassifierInfo {
	return model.ClassifierInfo{Location: "testdata/model.json", ModelType: "stub", PipelineSteps: []string{"tfidf", "clf"}}
}

func newAggregator(c *stubClassifier) *service.RiskAggregator {
	return service.NewRiskAggregator(service.ModelState{Classifier: c, Location: "testdata/model.json"}, valueobject.ScoreWeights{})
}

func mustRequest(t *testing.T, description string, refs []string, age, investments int) model.AnalysisRequest {
	t.Helper()
	req, err := model.NewAnalysisRequest(description, refs, age, investments)
	require.NoError(t, err)
	return req
}

func TestRiskAggregator_Analyze(t *testing.T) {
	t.Run("guaranteed returns copied from a known scam", func(t *testing.T) {
		desc := "Guaranteed 500% returns in 30 days"
		agg := newAggregator(&stubClassifier{prob: 0.91234567})

		res, err := agg.Analyze(context.Background(), mustRequest(t, desc, []string{desc}, 3, 0))

		require.NoError(t, err)
		assert.Equal(t, 0.9123, res.MLScamScore())
		assert.Equal(t, 1.0, res.PlagiarismScore())
		assert.Equal(t, 0.7, res.WalletRiskScore())
		assert.Equal(t, 0.9024, res.FinalRiskScore())
		assert.Equal(t, valueobject.RiskLevelHigh, res.RiskLevel())
	})

	t.Run("final score matches the weighted formula", func(t *testing.T) {
		cases := []struct {
			prob float64
			want float64
		}{
			{prob: 0.8765, want: 0.8809},
			{prob: 0.0, want: 0.355},
			{prob: 1.0, want: 0.955},
			{prob: 0.5, want: 0.655},
		}
		for _, c := range cases {
			agg := newAggregator(&stubClassifier{prob: c.prob})
			res, err := agg.Analyze(context.Background(), mustRequest(t, "x", []string{"x"}, 3, 0))
			require.NoError(t, err)
			assert.Equal(t, c.want, res.FinalRiskScore(), "prob %v", c.prob)
		}
	})

	t.Run("established wallet with no references", func(t *testing.T) {
		agg := newAggregator(&stubClassifier{prob: 0.1})

		res, err := agg.Analyze(context.Background(), mustRequest(t, "Community garden", nil, 400, 12))

		require.NoError(t, err)
		assert.Equal(t, 0.0, res.PlagiarismScore())
		assert.Equal(t, 0.0, res.WalletRiskScore())
		assert.Equal(t, 0.06, res.FinalRiskScore())
		assert.Equal(t, valueobject.RiskLevelLow, res.RiskLevel())
	})

	t.Run("is idempotent", func(t *testing.T) {
		agg := newAggregator(&stubClassifier{prob: 0.3})
		req := mustRequest(t, "abcd", []string{"bcde"}, 10, 0)

		first, err := agg.Analyze(context.Background(), req)
		require.NoError(t, err)
		second, err := agg.Analyze(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 0.4125, first.FinalRiskScore())
	})

	t.Run("fails without calling any scorer when the model is not loaded", func(t *testing.T) {
		agg := service.NewRiskAggregator(service.ModelState{
			Location: "ml/models/scam_model.json",
			LoadErr:  errors.New("no such file"),
		}, valueobject.ScoreWeights{})

		_, err := agg.Analyze(context.Background(), mustRequest(t, "x", nil, 0, 0))

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrModelUnavailable)
		assert.Equal(t, "ML model not loaded. Please ensure ml/models/scam_model.json exists.", err.Error())
		_, ok := agg.ClassifierInfo()
		assert.False(t, ok)
	})

	t.Run("wraps classifier errors", func(t *testing.T) {
		agg := newAggregator(&stubClassifier{err: fmt.Errorf("vectorizer exploded")})

		_, err := agg.Analyze(context.Background(), mustRequest(t, "x", nil, 0, 0))

		var sErr *model.ScoringError
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, "classifier", sErr.Stage)
		assert.Contains(t, err.Error(), "vectorizer exploded")
	})

	t.Run("recovers from a panicking classifier", func(t *testing.T) {
		agg := newAggregator(&stubClassifier{panic: true})

		_, err := agg.Analyze(context.Background(), mustRequest(t, "x", nil, 0, 0))

		assert.ErrorIs(t, err, model.ErrScoring)
		assert.Contains(t, err.Error(), "corrupt artifact")
	})

	t.Run("rejects out of range probabilities", func(t *testing.T) {
		agg := newAggregator(&stubClassifier{prob: 1.5})

		_, err := agg.Analyze(context.Background(), mustRequest(t, "x", nil, 0, 0))

		assert.ErrorIs(t, err, model.ErrScoring)
	})

	t.Run("rejects a zero request", func(t *testing.T) {
		agg := newAggregator(&stubClassifier{prob: 0.5})

		_, err := agg.Analyze(context.Background(), model.AnalysisRequest{})

		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("stops on a cancelled context", func(t *testing.T) {
		c := &stubClassifier{prob: 0.5}
		agg := newAggregator(c)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := agg.Analyze(ctx, mustRequest(t, "x", nil, 0, 0))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, c.calls)
	})
}

func TestRiskAggregator_CustomWeights(t *testing.T) {
	weights, err := valueobject.NewScoreWeights(decimal.NewFromInt(1), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	agg := service.NewRiskAggregator(service.ModelState{Classifier: &stubClassifier{prob: 0.42}}, weights)
	res, err := agg.Analyze(context.Background(), mustRequest(t, "x", []string{"x"}, 0, 0))

	require.NoError(t, err)
	assert.Equal(t, 0.42, res.FinalRiskScore())
	assert.Equal(t, weights, agg.Weights())
}

func TestRiskAggregator_Ready(t *testing.T) {
	agg := newAggregator(&stubClassifier{})

	require.NoError(t, agg.Ready())
	info, ok := agg.ClassifierInfo()
	require.True(t, ok)
	assert.Equal(t, []string{"tfidf", "clf"}, info.PipelineSteps)
}
