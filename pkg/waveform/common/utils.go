package common

import (
	"strconv"
	"strings"
)

// FormatSampleRate renders a rate in the vendor Sa/s notation (e.g. "1 kSa/s")
func FormatSampleRate(hz float64) string {
	if hz <= 0 {
		return UnknownDisplay
	}

	switch {
	case hz >= 1e6:
		return trimFloat(hz/1e6) + " MSa/s"
	case hz >= 1e3:
		return trimFloat(hz/1e3) + " kSa/s"
	default:
		return trimFloat(hz) + " Sa/s"
	}
}

// CleanHeaderValue removes quotes and surrounding whitespace
func CleanHeaderValue(value string) string {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, "\"'")
	return strings.TrimSpace(value)
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1)
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
