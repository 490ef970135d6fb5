package valueobject

import (
	"math"
	"strconv"
)

// Round4 rounds x to four decimal places using the correctly rounded decimal
// form of its exact binary value.
func Round4(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 4, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// InUnitInterval reports whether x is a finite value in [0,1].
func InUnitInterval(x float64) bool {
	return !math.IsNaN(x) && x >= 0 && x <= 1
}
