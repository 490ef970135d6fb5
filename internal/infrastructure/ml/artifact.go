package ml

import (
	"errors"
	"fmt"
	"math"
)

// Artifact is the exported form of a fitted TF-IDF + logistic regression
// pipeline.
type Artifact struct {
	ModelType     string           `json:"model_type"`
	PipelineSteps []string         `json:"pipeline_steps"`
	Vectorizer    VectorizerParams `json:"tfidf"`
	Classifier    LogisticParams   `json:"clf"`
}

// VectorizerParams mirrors the fitted TfidfVectorizer state.
type VectorizerParams struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	StopWords    []string       `json:"stop_words"`
	TokenPattern string         `json:"token_pattern"`
	Norm         string         `json:"norm"`
	NgramRange   [2]int         `json:"ngram_range"`
	Lowercase    *bool          `json:"lowercase"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Binary       bool           `json:"binary"`
}

// LogisticParams mirrors a fitted binary LogisticRegression.
type LogisticParams struct {
	Classes   []int     `json:"classes"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

var errInvalidArtifact = errors.New("invalid classifier artifact")

// Validate checks the artifact is internally consistent.
func (a *Artifact) Validate() error {
	v, c := a.Vectorizer, a.Classifier

	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("%w: empty vocabulary", errInvalidArtifact)
	}
	if len(c.Coef) != len(v.Vocabulary) {
		return fmt.Errorf("%w: %d coefficients for %d terms", errInvalidArtifact, len(c.Coef), len(v.Vocabulary))
	}
	if len(v.IDF) != 0 && len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("%w: %d idf weights for %d terms", errInvalidArtifact, len(v.IDF), len(v.Vocabulary))
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.Vocabulary) {
			return fmt.Errorf("%w: term %q has index %d out of range", errInvalidArtifact, term, idx)
		}
	}
	if len(c.Classes) != 2 {
		return fmt.Errorf("%w: expected 2 classes, got %d", errInvalidArtifact, len(c.Classes))
	}
	for _, x := range append(append([]float64{c.Intercept}, c.Coef...), v.IDF...) {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: non-finite parameter", errInvalidArtifact)
		}
	}

	switch v.Norm {
	case "", "l1", "l2", "none":
	default:
		return fmt.Errorf("%w: unsupported norm %q", errInvalidArtifact, v.Norm)
	}

	lo, hi := v.NgramRange[0], v.NgramRange[1]
	if lo == 0 && hi == 0 {
		return nil
	}
	if lo < 1 || hi < lo {
		return fmt.Errorf("%w: bad ngram_range [%d, %d]", errInvalidArtifact, lo, hi)
	}
	return nil
}
