// Package money converts between decimal currency strings and int64 cent
// amounts. All monetary values in fintrack are stored and summed as integer
// minor units so that no floating point error can creep into balances.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned when a string cannot be parsed as a
// monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

const maxWhole = (1<<63 - 1) / 100

// ParsePositive converts a decimal string to cents. The amount must be
// strictly positive; signs are rejected. Half-up rounding is applied on the
// third decimal place.
func ParsePositive(s string) (int64, error) {
	cents, err := parse(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Parse converts a decimal string to cents. An optional leading minus sign
// is accepted; zero is a valid amount.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	cents, err := parse(s)
	if err != nil {
		return 0, err
	}
	if negative {
		cents = -cents
	}
	return cents, nil
}

// parse handles an unsigned decimal string with a dot separator.
func parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return 0, ErrInvalidAmount
		}
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && s != "0" {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || whole > maxWhole {
		return 0, ErrInvalidAmount
	}

	// First two fractional digits are cents; half-up rounding on the third.
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	return whole*100 + frac, nil
}

// Format renders cents as a plain two-decimal string, e.g. -1250 -> "-12.50".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
