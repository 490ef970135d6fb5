package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScoreWeights is the weight policy used to blend the three risk signals.
// Weights are held as decimals so the sum check is exact.
type ScoreWeights struct {
	ml         decimal.Decimal
	plagiarism decimal.Decimal
	wallet     decimal.Decimal
}

// DefaultScoreWeights returns the production 0.6 / 0.25 / 0.15 policy.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		ml:         decimal.RequireFromString("0.6"),
		plagiarism: decimal.RequireFromString("0.25"),
		wallet:     decimal.RequireFromString("0.15"),
	}
}

// NewScoreWeights validates a weight policy. Each weight must lie in [0,1]
// and the three must sum to exactly 1.
func NewScoreWeights(ml, plagiarism, wallet decimal.Decimal) (ScoreWeights, error) {
	for name, w := range map[string]decimal.Decimal{
		"ml":         ml,
		"plagiarism": plagiarism,
		"wallet":     wallet,
	} {
		if w.IsNegative() || w.GreaterThan(decimal.NewFromInt(1)) {
			return ScoreWeights{}, fmt.Errorf("%s weight must be between 0 and 1, got %s", name, w)
		}
	}

	sum := ml.Add(plagiarism).Add(wallet)
	if !sum.Equal(decimal.NewFromInt(1)) {
		return ScoreWeights{}, fmt.Errorf("weights must sum to 1, got %s", sum)
	}

	return ScoreWeights{ml: ml, plagiarism: plagiarism, wallet: wallet}, nil
}

// ParseScoreWeights builds a weight policy from decimal strings.
func ParseScoreWeights(ml, plagiarism, wallet string) (ScoreWeights, error) {
	parsed := make([]decimal.Decimal, 0, 3)
	for _, s := range []string{ml, plagiarism, wallet} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return ScoreWeights{}, fmt.Errorf("invalid weight %q: %w", s, err)
		}
		parsed = append(parsed, d)
	}
	return NewScoreWeights(parsed[0], parsed[1], parsed[2])
}

// ML returns the classifier weight as a float64.
func (w ScoreWeights) ML() float64 { return w.ml.InexactFloat64() }

// Plagiarism returns the similarity weight as a float64.
func (w ScoreWeights) Plagiarism() float64 { return w.plagiarism.InexactFloat64() }

// Wallet returns the wallet weight as a float64.
func (w ScoreWeights) Wallet() float64 { return w.wallet.InexactFloat64() }

// IsZero returns true if no policy has been set.
func (w ScoreWeights) IsZero() bool {
	return w.ml.IsZero() && w.plagiarism.IsZero() && w.wallet.IsZero()
}

func (w ScoreWeights) String() string {
	return fmt.Sprintf("ml=%s plagiarism=%s wallet=%s", w.ml, w.plagiarism, w.wallet)
}
