// Package core provides the payment domain model: money handling,
// submission parsing and validation, and aggregate result types.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering cents as display currency.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmountCents caps a single payment at 99,999,999.99.
const maxAmountCents = 9_999_999_999

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. A
// comma followed by exactly three digits reads as thousands grouping
// (1,000) and is rejected rather than misread as 1.000. The result is
// always strictly positive cents; invalid formats, negative values,
// zero, and amounts above the cap return ErrInvalidAmount.
//
// Examples:
//
//	ParseDecimalToCents("500")    -> 50000, nil
//	ParseDecimalToCents("12,34")  -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("1,000")  -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		if frac := s[i+1:]; len(frac) == 3 && digitsOnly(frac) {
			return 0, ErrInvalidAmount
		}
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only plain positive values allowed
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0).IntPart()
	if cents <= 0 || cents > maxAmountCents {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatMoney renders cents as display currency: fixed Rs. symbol, two
// decimals, thousands separators (Rs.1,234.50).
func FormatMoney(m Money) string {
	whole := m.Cents / 100
	frac := m.Cents % 100
	if frac < 0 {
		frac = -frac
	}

	var b strings.Builder
	b.WriteString("Rs.")
	if whole < 0 {
		b.WriteByte('-')
		whole = -whole
	}
	b.WriteString(groupThousands(whole))
	b.WriteByte('.')
	b.WriteByte(byte('0' + frac/10))
	b.WriteByte(byte('0' + frac%10))
	return b.String()
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
