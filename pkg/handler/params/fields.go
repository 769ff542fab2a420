// Query parameter parsing shared by the handlers.

package params

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 0 // everything
	MaxPageSize     = 1000
)

// ParseEValue reads the evalue query parameter. Empty means fallback; the
// value must be a finite number in [0, max].
func ParseEValue(raw string, fallback, max float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("evalue must be a number, got %q", raw)
	}
	if v < 0 || v > max {
		return 0, fmt.Errorf("evalue must be between 0 and %g, got %g", max, v)
	}
	return v, nil
}

// ParsePage reads a non-negative integer paging parameter. Empty means
// fallback.
func ParsePage(name, raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, raw)
	}
	return n, nil
}
