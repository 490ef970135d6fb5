package service

const (
	newWalletAgeDays   = 7
	newWalletRisk      = 0.4
	noInvestmentsRisk  = 0.3
	maxWalletRiskScore = 1.0
)

// WalletRiskScorer is a domain service that scores wallet trust from its
// age and investment history using additive rules.
type WalletRiskScorer struct{}

// NewWalletRiskScorer creates a new WalletRiskScorer instance.
func NewWalletRiskScorer() *WalletRiskScorer {
	return &WalletRiskScorer{}
}

// Score returns a risk in [0,1]. Inputs are assumed already validated as
// non-negative.
func (s *WalletRiskScorer) Score(walletAgeDays, pastInvestments int) float64 {
	risk := 0.0

	// Rule: wallet created less than a week ago.
	if walletAgeDays < newWalletAgeDays {
		risk += newWalletRisk
	}

	// Rule: wallet has never invested.
	if pastInvestments == 0 {
		risk += noInvestmentsRisk
	}

	return min(risk, maxWalletRiskScore)
}
