package valueobject

import "fmt"

// RiskLevel is an immutable value object banding a final risk score.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow    = RiskLevel{value: "LOW"}
	RiskLevelMedium = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh   = RiskLevel{value: "HIGH"}
)

const (
	highRiskThreshold   = 0.66
	mediumRiskThreshold = 0.33
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "LOW":
		return RiskLevelLow, nil
	case "MEDIUM":
		return RiskLevelMedium, nil
	case "HIGH":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromScore bands a final risk score in [0,1].
// Both thresholds are exclusive: 0.66 is MEDIUM and 0.33 is LOW.
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score > highRiskThreshold:
		return RiskLevelHigh
	case score > mediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
