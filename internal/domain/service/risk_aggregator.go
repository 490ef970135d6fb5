package service

import (
	"context"
	"fmt"

	"github.com/fundchain/riskd/internal/domain/model"
	"github.com/fundchain/riskd/internal/domain/port"
	"github.com/fundchain/riskd/internal/domain/valueobject"
)

// ModelState is the one-time outcome of loading the classifier artifact.
// Classifier is nil when loading failed.
type ModelState struct {
	Classifier port.TextClassifier
	Location   string
	LoadErr    error
}

// Loaded reports whether a classifier is available.
func (s ModelState) Loaded() bool {
	return s.Classifier != nil
}

// RiskAggregator combines the classifier, similarity and wallet signals
// into an AnalysisResult. It holds no mutable state.
type RiskAggregator struct {
	state      ModelState
	similarity *SimilarityScorer
	wallet     *WalletRiskScorer
	weights    valueobject.ScoreWeights
	wML        float64
	wPlag      float64
	wWallet    float64
}

// NewRiskAggregator creates an aggregator over the given model state. A zero
// weights value selects the default policy.
func NewRiskAggregator(state ModelState, weights valueobject.ScoreWeights) *RiskAggregator {
	if weights.IsZero() {
		weights = valueobject.DefaultScoreWeights()
	}
	return &RiskAggregator{
		state:      state,
		similarity: NewSimilarityScorer(),
		wallet:     NewWalletRiskScorer(),
		weights:    weights,
		wML:        weights.ML(),
		wPlag:      weights.Plagiarism(),
		wWallet:    weights.Wallet(),
	}
}

// Ready returns a *model.ModelUnavailableError when no classifier is loaded.
func (a *RiskAggregator) Ready() error {
	if a.state.Loaded() {
		return nil
	}
	return &model.ModelUnavailableError{Location: a.state.Location, Cause: a.state.LoadErr}
}

// ClassifierInfo describes the loaded classifier; ok is false when none is loaded.
func (a *RiskAggregator) ClassifierInfo() (info model.ClassifierInfo, ok bool) {
	if !a.state.Loaded() {
		return model.ClassifierInfo{}, false
	}
	return a.state.Classifier.Info(), true
}

// Weights returns the active weight policy.
func (a *RiskAggregator) Weights() valueobject.ScoreWeights {
	return a.weights
}

// Analyze scores one request. It fails with *model.ModelUnavailableError
// before touching any scorer when no classifier is loaded, and with
// *model.ScoringError when a stage fails unexpectedly.
func (a *RiskAggregator) Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error) {
	if req.IsZero() {
		return model.AnalysisResult{}, &model.ValidationError{Field: "description", Reason: "is required"}
	}
	if err := a.Ready(); err != nil {
		return model.AnalysisResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("analysis cancelled: %w", err)
	}

	prob, err := guard("classifier", func() (float64, error) {
		return a.state.Classifier.ScamProbability(ctx, req.Description())
	})
	if err != nil {
		return model.AnalysisResult{}, err
	}
	if !valueobject.InUnitInterval(prob) {
		return model.AnalysisResult{}, &model.ScoringError{
			Stage: "classifier",
			Err:   fmt.Errorf("probability out of range: %v", prob),
		}
	}
	mlScore := valueobject.Round4(prob)

	plagiarismScore, err := guard("similarity", func() (float64, error) {
		return a.similarity.Score(req.Description(), req.ExistingDescriptions()), nil
	})
	if err != nil {
		return model.AnalysisResult{}, err
	}

	walletScore, err := guard("wallet", func() (float64, error) {
		return a.wallet.Score(req.WalletAgeDays(), req.PastInvestments()), nil
	})
	if err != nil {
		return model.AnalysisResult{}, err
	}

	result, err := model.NewAnalysisResult(mlScore, plagiarismScore, walletScore, a.Combine(mlScore, plagiarismScore, walletScore))
	if err != nil {
		return model.AnalysisResult{}, &model.ScoringError{Stage: "aggregate", Err: err}
	}
	return result, nil
}

// Combine blends the component scores with the weight policy and rounds to
// four decimals. Each product is rounded separately and the sum runs left to
// right.
func (a *RiskAggregator) Combine(mlScore, plagiarismScore, walletScore float64) float64 {
	return valueobject.Round4(float64(a.wML*mlScore) + float64(a.wPlag*plagiarismScore) + float64(a.wWallet*walletScore))
}

// guard runs one scoring stage, converting errors and panics into
// *model.ScoringError.
func guard(stage string, fn func() (float64, error)) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, &model.ScoringError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	score, err = fn()
	if err != nil {
		return 0, &model.ScoringError{Stage: stage, Err: err}
	}
	return score, nil
}
