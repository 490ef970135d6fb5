package valueobject_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundchain/riskd/internal/domain/valueobject"
)

func TestDefaultScoreWeights(t *testing.T) {
	w := valueobject.DefaultScoreWeights()

	assert.Equal(t, 0.6, w.ML())
	assert.Equal(t, 0.25, w.Plagiarism())
	assert.Equal(t, 0.15, w.Wallet())
	assert.False(t, w.IsZero())
}

func TestNewScoreWeights(t *testing.T) {
	tests := []struct {
		name       string
		ml         string
		plagiarism string
		wallet     string
		wantErr    bool
	}{
		{name: "default policy", ml: "0.6", plagiarism: "0.25", wallet: "0.15"},
		{name: "all weight on classifier", ml: "1", plagiarism: "0", wallet: "0"},
		{name: "thirds that do not sum exactly", ml: "0.3333", plagiarism: "0.3333", wallet: "0.3333", wantErr: true},
		{name: "sum above one", ml: "0.7", plagiarism: "0.25", wallet: "0.15", wantErr: true},
		{name: "negative weight", ml: "1.1", plagiarism: "-0.1", wallet: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := valueobject.NewScoreWeights(
				decimal.RequireFromString(tt.ml),
				decimal.RequireFromString(tt.plagiarism),
				decimal.RequireFromString(tt.wallet),
			)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseScoreWeights(t *testing.T) {
	t.Run("parses decimal strings", func(t *testing.T) {
		w, err := valueobject.ParseScoreWeights("0.5", "0.3", "0.2")
		require.NoError(t, err)
		assert.Equal(t, 0.5, w.ML())
		assert.Equal(t, "ml=0.5 plagiarism=0.3 wallet=0.2", w.String())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := valueobject.ParseScoreWeights("abc", "0.3", "0.2")
		assert.ErrorContains(t, err, "invalid weight")
	})
}

func TestRound4(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: 1, want: 1},
		{in: 0.123456, want: 0.1235},
		{in: 0.12344, want: 0.1234},
		{in: 0.6923076923076923, want: 0.6923},
		{in: 0.355, want: 0.355},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, valueobject.Round4(tt.in), "Round4(%v)", tt.in)
	}

	assert.True(t, math.IsNaN(valueobject.Round4(math.NaN())))
}

func TestInUnitInterval(t *testing.T) {
	assert.True(t, valueobject.InUnitInterval(0))
	assert.True(t, valueobject.InUnitInterval(1))
	assert.False(t, valueobject.InUnitInterval(-0.0001))
	assert.False(t, valueobject.InUnitInterval(1.0001))
	assert.False(t, valueobject.InUnitInterval(math.NaN()))
}
