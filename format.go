package gocalc

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders v the way results are shown: shortest round-trip
// digits, always with a fraction for whole numbers, and exponent form
// outside [1e-4, 1e16).
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return formatExp(v)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// formatExp turns Go's 1.5e-05 / 1e+16 into 1.5e-5 / 1e16.
func formatExp(v float64) string {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	mant, exp := s[:i], s[i+1:]

	neg := false
	switch exp[0] {
	case '-':
		neg = true
		exp = exp[1:]
	case '+':
		exp = exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mant + "e" + exp
}
