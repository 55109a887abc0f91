package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// amountToken matches "1,234.56", "1.234,56", "217,00" and "217.00".
const amountToken = `\d{1,3}(?:[.,]\d{3})*[.,]\d{2}|\d+[.,]\d{2}`

func totalPattern(th Thresholds) (*regexp.Regexp, error) {
	return regexp.Compile(fmt.Sprintf(
		`(?i)total[^0-9]{0,%d}?(?:mxn|us\$|usd|\$)?\s*(%s)`, th.TotalGap, amountToken,
	))
}

// FindTotal returns the amount following the last "total" label in text, or
// nil when there is none or it does not parse. Receipts list "Subtotal" and
// tax lines before the grand total, so the last occurrence is the one kept.
// A label with no amount after it does not clear an earlier one.
//
// text should be normalized but not lower-cased.
func (e *Engine) FindTotal(text string) *float64 {
	last := ""
	// The character after an amount is checked by hand instead of by the
	// pattern so that a label glued to it ("100.00Total") is still scanned.
	for pos := 0; pos < len(text); {
		loc := e.total.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[2], pos+loc[3]
		if end == len(text) || !isDigit(text[end]) {
			last = text[start:end]
		}
		pos = end
	}
	if last == "" {
		return nil
	}
	v, ok := ParseAmount(last)
	if !ok {
		return nil
	}
	return &v
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// ParseAmount converts a monetary token to a float64, accepting both
// decimal-comma and decimal-point conventions:
//
//	"1,234.56" -> 1234.56
//	"1.234,56" -> 1234.56
//	"217,00"   -> 217
//
// When both separators are present the last one is the decimal separator.
// A lone comma is read as a decimal comma. Negative and non-finite values
// are rejected.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	// Remove currency markers and whitespace (including Unicode variants)
	for _, marker := range []string{"US$", "MXN", "USD", "$", " ", "\u00A0"} {
		s = strings.ReplaceAll(s, marker, "")
	}
	if s == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// More than one comma leaves several dots and fails to parse.
		s = strings.ReplaceAll(s, ",", ".")
	}

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, false
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
