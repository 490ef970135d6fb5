package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundchain/riskd/internal/domain/valueobject"
)

func TestRiskLevelFromScore(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected valueobject.RiskLevel
	}{
		{name: "zero is LOW", score: 0, expected: valueobject.RiskLevelLow},
		{name: "0.33 is LOW", score: 0.33, expected: valueobject.RiskLevelLow},
		{name: "just above 0.33 is MEDIUM", score: 0.3301, expected: valueobject.RiskLevelMedium},
		{name: "0.66 is MEDIUM", score: 0.66, expected: valueobject.RiskLevelMedium},
		{name: "just above 0.66 is HIGH", score: 0.6601, expected: valueobject.RiskLevelHigh},
		{name: "one is HIGH", score: 1, expected: valueobject.RiskLevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, valueobject.RiskLevelFromScore(tt.score))
		})
	}
}

func TestRiskLevelFromString(t *testing.T) {
	for _, s := range []string{"LOW", "MEDIUM", "HIGH"} {
		t.Run(s, func(t *testing.T) {
			level, err := valueobject.RiskLevelFromString(s)
			require.NoError(t, err)
			assert.Equal(t, s, level.String())
		})
	}

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := valueobject.RiskLevelFromString("CRITICAL")
		assert.Error(t, err)
	})
}

func TestRiskLevel_IsZero(t *testing.T) {
	assert.True(t, valueobject.RiskLevel{}.IsZero())
	assert.False(t, valueobject.RiskLevelLow.IsZero())
	assert.True(t, valueobject.RiskLevelHigh.Equal(valueobject.RiskLevelHigh))
	assert.False(t, valueobject.RiskLevelHigh.Equal(valueobject.RiskLevelMedium))
}
