package model

import (
	"fmt"

	"github.com/fundchain/riskd/internal/domain/valueobject"
)

// AnalysisResult holds the three component scores and their weighted blend.
type AnalysisResult struct {
	mlScamScore     float64
	plagiarismScore float64
	walletRiskScore float64
	finalRiskScore  float64
}

// NewAnalysisResult builds a result, rejecting any score outside [0,1].
func NewAnalysisResult(mlScamScore, plagiarismScore, walletRiskScore, finalRiskScore float64) (AnalysisResult, error) {
	scores := []struct {
		name  string
		value float64
	}{
		{"ml_scam_score", mlScamScore},
		{"plagiarism_score", plagiarismScore},
		{"wallet_risk_score", walletRiskScore},
		{"final_risk_score", finalRiskScore},
	}
	for _, s := range scores {
		if !valueobject.InUnitInterval(s.value) {
			return AnalysisResult{}, fmt.Errorf("%s out of range: %v", s.name, s.value)
		}
	}

	return AnalysisResult{
		mlScamScore:     mlScamScore,
		plagiarismScore: plagiarismScore,
		walletRiskScore: walletRiskScore,
		finalRiskScore:  finalRiskScore,
	}, nil
}

func (r AnalysisResult) MLScamScore() float64     { return r.mlScamScore }
func (r AnalysisResult) PlagiarismScore() float64 { return r.plagiarismScore }
func (r AnalysisResult) WalletRiskScore() float64 { return r.walletRiskScore }
func (r AnalysisResult) FinalRiskScore() float64  { return r.finalRiskScore }

// RiskLevel bands the final score.
func (r AnalysisResult) RiskLevel() valueobject.RiskLevel {
	return valueobject.RiskLevelFromScore(r.finalRiskScore)
}
