// Package validation holds the field predicates shared by the record
// services. Every function is pure.
package validation

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	validate  = validator.New()
	dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func IsValidEmail(s string) bool {
	if strings.TrimSpace(s) != s || s == "" {
		return false
	}
	return validate.Var(s, "email") == nil
}

// IsValidDate accepts only YYYY-MM-DD naming a real calendar day.
// 2023-02-30 is rejected rather than rolled over.
func IsValidDate(s string) bool {
	if !dateShape.MatchString(s) {
		return false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == s
}

func IsNonNegativeDecimal(s string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// moneyLimit is the smallest value that no longer fits a decimal(12,2) column.
var moneyLimit = decimal.New(1, 10)

// IsNonNegativeMoney is IsNonNegativeDecimal bounded to decimal(12,2).
// Values are compared after rounding to cents, as the store would.
func IsNonNegativeMoney(s string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.Round(2).LessThan(moneyLimit)
}

func IsNonNegativeInteger(s string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return false
	}
	return n >= 0
}

// SanitizeText is for output only. Stored values are never escaped.
func SanitizeText(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// IsBlank treats whitespace-only input as missing.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
