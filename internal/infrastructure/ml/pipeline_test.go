package ml_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundchain/riskd/internal/infrastructure/ml"
)

const fixturePath = "testdata/scam_model.json"

func loadFixture(t *testing.T) *ml.Pipeline {
	t.Helper()
	p, err := ml.Load(context.Background(), ml.NewFileSource(fixturePath))
	require.NoError(t, err)
	return p
}

func TestPipeline_ScamProbability(t *testing.T) {
	p := loadFixture(t)

	tests := []struct {
		doc  string
		want float64
	}{
		{doc: "Guaranteed 500% returns in 30 days", want: 0.8892786871625032},
		{doc: "Community garden in the park", want: 0.034896511142402505},
		{doc: "Nothing matches here", want: 0.41338242108267},
		{doc: "Crypto crypto PROFIT, guaranteed!", want: 0.8778535788165769},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got, err := p.ScamProbability(context.Background(), tt.doc)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestPipeline_Info(t *testing.T) {
	p := loadFixture(t)

	info := p.Info()
	assert.Equal(t, fixturePath, info.Location)
	assert.Equal(t, "Pipeline(TfidfVectorizer, LogisticRegression)", info.ModelType)
	assert.Equal(t, []string{"tfidf", "clf"}, info.PipelineSteps)
	assert.Equal(t, 7, p.VocabularySize())
}

func TestPipeline_CancelledContext(t *testing.T) {
	p := loadFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ScamProbability(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Bigrams(t *testing.T) {
	artifact := ml.Artifact{
		Vectorizer: ml.VectorizerParams{
			Vocabulary: map[string]int{"double money": 0, "money": 1},
			NgramRange: [2]int{1, 2},
			Norm:       "none",
		},
		Classifier: ml.LogisticParams{Classes: []int{0, 1}, Coef: []float64{3, 0}, Intercept: -3},
	}
	p := writeAndLoad(t, artifact, false)

	withBigram, err := p.ScamProbability(context.Background(), "Double money fast")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, withBigram, 1e-12)

	without, err := p.ScamProbability(context.Background(), "money double")
	require.NoError(t, err)
	assert.Less(t, without, 0.5)
}

func TestLoad_Zstd(t *testing.T) {
	raw, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	var artifact ml.Artifact
	require.NoError(t, json.Unmarshal(raw, &artifact))

	p := writeAndLoad(t, artifact, true)

	got, err := p.ScamProbability(context.Background(), "Guaranteed 500% returns in 30 days")
	require.NoError(t, err)
	assert.InDelta(t, 0.8892786871625032, got, 1e-12)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ml.Load(context.Background(), ml.NewFileSource(filepath.Join(t.TempDir(), "absent.json")))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := ml.Load(context.Background(), ml.NewFileSource(path))
		assert.ErrorContains(t, err, "failed to decode artifact")
	})

	invalid := []struct {
		name     string
		artifact ml.Artifact
	}{
		{name: "empty vocabulary", artifact: ml.Artifact{}},
		{
			name: "coefficient count mismatch",
			artifact: ml.Artifact{
				Vectorizer: ml.VectorizerParams{Vocabulary: map[string]int{"a": 0}},
				Classifier: ml.LogisticParams{Classes: []int{0, 1}, Coef: []float64{1, 2}},
			},
		},
		{
			name: "index out of range",
			artifact: ml.Artifact{
				Vectorizer: ml.VectorizerParams{Vocabulary: map[string]int{"a": 3}},
				Classifier: ml.LogisticParams{Classes: []int{0, 1}, Coef: []float64{1}},
			},
		},
		{
			name: "multiclass",
			artifact: ml.Artifact{
				Vectorizer: ml.VectorizerParams{Vocabulary: map[string]int{"a": 0}},
				Classifier: ml.LogisticParams{Classes: []int{0, 1, 2}, Coef: []float64{1}},
			},
		},
		{
			name: "unknown norm",
			artifact: ml.Artifact{
				Vectorizer: ml.VectorizerParams{Vocabulary: map[string]int{"a": 0}, Norm: "max"},
				Classifier: ml.LogisticParams{Classes: []int{0, 1}, Coef: []float64{1}},
			},
		},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.artifact.Validate())
		})
	}
}

func TestNewSource(t *testing.T) {
	t.Run("plain paths read from disk", func(t *testing.T) {
		src, err := ml.NewSource("ml/models/scam_model.json", ml.ObjectStoreConfig{})
		require.NoError(t, err)
		assert.Equal(t, "ml/models/scam_model.json", src.Location())
	})

	t.Run("object locations need a bucket and key", func(t *testing.T) {
		_, err := ml.NewSource("s3://models", ml.ObjectStoreConfig{Endpoint: "localhost:9000"})
		assert.Error(t, err)
	})

	t.Run("object locations need an endpoint", func(t *testing.T) {
		_, err := ml.NewSource("s3://models/scam_model.json", ml.ObjectStoreConfig{})
		assert.ErrorContains(t, err, "MINIO_ENDPOINT")
	})

	t.Run("object location round trips", func(t *testing.T) {
		src, err := ml.NewSource("s3://models/v3/scam_model.json.zst", ml.ObjectStoreConfig{Endpoint: "localhost:9000"})
		require.NoError(t, err)
		assert.Equal(t, "s3://models/v3/scam_model.json.zst", src.Location())
	})
}

func TestLoadModelState(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("loaded", func(t *testing.T) {
		state := ml.LoadModelState(context.Background(), fixturePath, ml.ObjectStoreConfig{}, logger)
		assert.True(t, state.Loaded())
		assert.NoError(t, state.LoadErr)
	})

	t.Run("missing artifact is reported, not fatal", func(t *testing.T) {
		state := ml.LoadModelState(context.Background(), "does/not/exist.json", ml.ObjectStoreConfig{}, logger)
		assert.False(t, state.Loaded())
		assert.Equal(t, "does/not/exist.json", state.Location)
		assert.Error(t, state.LoadErr)
	})
}

func writeAndLoad(t *testing.T, artifact ml.Artifact, compress bool) *ml.Pipeline {
	t.Helper()

	raw, err := json.Marshal(artifact)
	require.NoError(t, err)

	if compress {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		_, err = enc.Write(raw)
		require.NoError(t, err)
		require.NoError(t, enc.Close())
		raw = buf.Bytes()
	}

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	p, err := ml.Load(context.Background(), ml.NewFileSource(path))
	require.NoError(t, err)
	return p
}
