// Package codegen builds the human-readable business codes for records.
package codegen

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	EmployeePrefix       = "EMP"
	DefaultProductPrefix = "PRD"
	sequenceWidth        = 5
)

// EmployeeCode formats next as EMP00042. next is count(employees)+1.
func EmployeeCode(next int64) string {
	return format(EmployeePrefix, next)
}

// ProductPrefix is the first three letters of the category, upper-cased.
// Non-letters are skipped. Short categories keep what they have.
func ProductPrefix(category string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(category) {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() == 3 {
			break
		}
	}
	if b.Len() == 0 {
		return DefaultProductPrefix
	}
	return b.String()
}

// ProductCode formats next as BEV00001 for category "Beverages".
func ProductCode(category string, next int64) string {
	return format(ProductPrefix(category), next)
}

func format(prefix string, next int64) string {
	if next < 1 {
		next = 1
	}
	return fmt.Sprintf("%s%0*d", prefix, sequenceWidth, next)
}
