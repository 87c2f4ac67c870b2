package refdata

import (
	"fmt"
	"math"
	"strconv"
)

// Composite-score tables are keyed at 2-decimal precision. All lookups go
// through one integer-scaled representation so float formatting differences
// can never cause a silent miss.

// ScaleKey converts a composite score to its scaled integer key (x100)
func ScaleKey(x float64) int {
	return int(math.Round(x * 100))
}

// RoundKey rounds a composite score to the table's 2-decimal granularity
func RoundKey(x float64) float64 {
	return math.Round(x*100) / 100
}

// KeyString renders a scaled key back to the external "420.00" form
func KeyString(scaled int) string {
	return fmt.Sprintf("%d.%02d", scaled/100, scaled%100)
}

// ParseKey parses an external 2-decimal string key into its scaled form
func ParseKey(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score key %q: %w", s, err)
	}
	return ScaleKey(f), nil
}
