// Package money parses the decimal strings that numeric(10,2) columns come
// back as.
//
// Parse is the only way monetary values enter arithmetic in this codebase.
// It accepts an optional minus sign, digits, and at most two decimal places
// ("150", "150.5", "-3.20"). Anything else, including the empty string, nil,
// thousands separators and comma decimals, parses to 0. Callers rely on that:
// a malformed value must never fail an aggregation, it just contributes
// nothing.
package money

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^-?\d+(\.\d{1,2})?$`)

func Valid(s string) bool {
	return decimalPattern.MatchString(strings.TrimSpace(s))
}

func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func ParsePtr(s *string) float64 {
	if s == nil {
		return 0
	}
	return Parse(*s)
}

// ValidPtr reports whether s is present and well formed.
func ValidPtr(s *string) bool {
	return s != nil && Valid(*s)
}

func Format(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func Round(f float64) float64 {
	return Parse(Format(f))
}

func Sum(values ...string) float64 {
	var total float64
	for _, v := range values {
		total += Parse(v)
	}
	return total
}
