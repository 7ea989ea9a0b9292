package table

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a cell as a float. Blank, non-numeric and NaN cells
// report false; surrounding whitespace is ignored.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FormatNumber renders a float with the fewest digits that round-trip,
// without an exponent: 150 -> "150", 1.5 -> "1.5". Infinities are written
// as "inf" and "-inf"; NaN is written as an empty cell.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
