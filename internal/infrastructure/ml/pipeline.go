package ml

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fundchain/riskd/internal/domain/model"
)

// defaultTokenPattern is scikit-learn's (?u)\b\w\w+\b: maximal runs of two
// or more Unicode word characters.
const (
	defaultTokenPattern = `[\p{L}\p{N}_]{2,}`
	sklearnTokenPattern = `(?u)\b\w\w+\b`
)

// Pipeline is a loaded, immutable TF-IDF + logistic regression classifier.
type Pipeline struct {
	location  string
	modelType string
	steps     []string

	vocabulary  map[string]int
	idf         []float64
	stopWords   map[string]struct{}
	token       *regexp.Regexp
	norm        string
	ngramMin    int
	ngramMax    int
	lowercase   bool
	sublinearTF bool
	binary      bool

	coef      []float64
	intercept float64
}

func newPipeline(location string, a *Artifact) (*Pipeline, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	v := a.Vectorizer

	pattern := v.TokenPattern
	if pattern == "" || pattern == sklearnTokenPattern {
		pattern = defaultTokenPattern
	}
	token, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: token_pattern: %v", errInvalidArtifact, err)
	}

	stop := make(map[string]struct{}, len(v.StopWords))
	for _, w := range v.StopWords {
		stop[w] = struct{}{}
	}

	lo, hi := v.NgramRange[0], v.NgramRange[1]
	if lo == 0 && hi == 0 {
		lo, hi = 1, 1
	}

	steps := a.PipelineSteps
	if len(steps) == 0 {
		steps = []string{"tfidf", "clf"}
	}
	modelType := a.ModelType
	if modelType == "" {
		modelType = "Pipeline"
	}

	return &Pipeline{
		location:    location,
		modelType:   modelType,
		steps:       slices.Clone(steps),
		vocabulary:  v.Vocabulary,
		idf:         v.IDF,
		stopWords:   stop,
		token:       token,
		norm:        v.Norm,
		ngramMin:    lo,
		ngramMax:    hi,
		lowercase:   v.Lowercase == nil || *v.Lowercase,
		sublinearTF: v.SublinearTF,
		binary:      v.Binary,
		coef:        a.Classifier.Coef,
		intercept:   a.Classifier.Intercept,
	}, nil
}

// ScamProbability returns P(scam) for one description.
func (p *Pipeline) ScamProbability(ctx context.Context, description string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return sigmoid(p.decision(p.transform(description))), nil
}

// Info describes the loaded artifact.
func (p *Pipeline) Info() model.ClassifierInfo {
	return model.ClassifierInfo{
		Location:      p.location,
		ModelType:     p.modelType,
		PipelineSteps: slices.Clone(p.steps),
	}
}

// VocabularySize returns the number of terms the vectorizer knows.
func (p *Pipeline) VocabularySize() int {
	return len(p.vocabulary)
}

// feature is one non-zero column of the TF-IDF row.
type feature struct {
	index int
	value float64
}

// transform turns a document into its sparse, normalised TF-IDF row with
// columns in ascending order.
func (p *Pipeline) transform(doc string) []feature {
	counts := make(map[int]float64)
	for _, term := range p.analyze(doc) {
		if idx, ok := p.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	row := make([]feature, 0, len(counts))
	for idx, tf := range counts {
		switch {
		case p.binary:
			tf = 1
		case p.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if len(p.idf) > 0 {
			tf *= p.idf[idx]
		}
		row = append(row, feature{index: idx, value: tf})
	}
	slices.SortFunc(row, func(a, b feature) int { return a.index - b.index })

	p.normalize(row)
	return row
}

func (p *Pipeline) normalize(row []feature) {
	var norm float64
	switch p.norm {
	case "", "l2":
		for _, f := range row {
			norm += f.value * f.value
		}
		norm = math.Sqrt(norm)
	case "l1":
		for _, f := range row {
			norm += math.Abs(f.value)
		}
	default:
		return
	}
	if norm == 0 {
		return
	}
	for i := range row {
		row[i].value /= norm
	}
}

// analyze lowercases, tokenizes, drops stop words and emits word n-grams.
func (p *Pipeline) analyze(doc string) []string {
	if p.lowercase {
		doc = cases.Lower(language.Und).String(doc)
	}

	tokens := p.token.FindAllString(doc, -1)
	if len(p.stopWords) > 0 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := p.stopWords[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	if p.ngramMin == 1 && p.ngramMax == 1 {
		return tokens
	}

	var terms []string
	if p.ngramMin == 1 {
		terms = append(terms, tokens...)
	}
	for n := max(p.ngramMin, 2); n <= p.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func (p *Pipeline) decision(row []feature) float64 {
	d := 0.0
	for _, f := range row {
		d += p.coef[f.index] * f.value
	}
	return d + p.intercept
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
