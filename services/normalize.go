package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const outOfStock = "out of stock"

// CleanPrice strips currency symbols and whitespace and parses a decimal.
// Unparseable input yields nil.
//
//	"$19.99" → 19.99
//	" 5 "    → 5
//	"$"      → nil
func CleanPrice(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(strings.ReplaceAll(*raw, "$", ""))
	return parseFloat(s)
}

// CleanCategory trims the value and upper-cases only its first letter, lower-casing
// the rest ("home GOODS" → "Home goods"). The result is the join key for reference
// prices, so it must stay this exact transform.
func CleanCategory(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	first, size := utf8.DecodeRuneInString(s)
	out := string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
	return &out
}

// CleanStock parses a stock count. "out of stock" in any case maps to 0;
// anything that is not a non-negative integer yields nil.
func CleanStock(raw *string) *int {
	if raw == nil {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(*raw))
	if s == outOfStock {
		zero := 0
		return &zero
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// CoerceNumber parses a plain number without any symbol stripping.
func CoerceNumber(raw *string) *float64 {
	if raw == nil {
		return nil
	}
	return parseFloat(strings.TrimSpace(*raw))
}

// CleanText trims a free-text value; blank becomes nil.
func CleanText(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	return &s
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}
