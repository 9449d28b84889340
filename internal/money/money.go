// Package money handles monetary amounts as int64 minor units (cents).
// Amounts are never represented as floating point anywhere money is
// computed, so splitting and summing stay exact.
package money

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimal converts a decimal string such as "12.34" to cents.
// Both dot and comma are accepted as the decimal separator; at most two
// fractional digits are allowed. The amount must be strictly positive.
func ParseDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("amount must be positive")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal digits", s)
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	const maxWhole = (1<<63 - 1) / 100
	if iv > maxWhole {
		return 0, fmt.Errorf("amount %q out of range", s)
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
		}
	}

	cents := iv*100 + frac
	if cents <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return cents, nil
}

// Format renders cents as a decimal string with two fractional digits.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Split divides total into n parts whose sum is exactly total. Every part
// gets the truncated share; the division remainder goes entirely to the
// last part.
func Split(total int64, n int) []int64 {
	per := total / int64(n)
	parts := make([]int64, n)
	for i := range parts {
		parts[i] = per
	}
	parts[n-1] += total - per*int64(n)
	return parts
}
