package service

import (
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fundchain/riskd/internal/domain/valueobject"
)

// SimilarityScorer measures how closely a description copies any of a set
// of reference descriptions.
type SimilarityScorer struct{}

// NewSimilarityScorer creates a new SimilarityScorer instance.
func NewSimilarityScorer() *SimilarityScorer {
	return &SimilarityScorer{}
}

// Score returns the highest SequenceMatcher ratio (2*M/T over characters,
// case-insensitive) between candidate and any reference, rounded to four
// decimals. It returns 0 when there are no references.
func (s *SimilarityScorer) Score(candidate string, references []string) float64 {
	if len(references) == 0 {
		return 0.0
	}

	// cases.Caser is stateful; one per call.
	lower := cases.Lower(language.Und)
	a := splitRunes(lower.String(candidate))

	best := 0.0
	for _, ref := range references {
		b := splitRunes(lower.String(ref))
		if ratio := difflib.NewMatcher(a, b).Ratio(); ratio > best {
			best = ratio
		}
	}

	return valueobject.Round4(best)
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
