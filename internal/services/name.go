package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormName collapses whitespace runs to a single space and title-cases the result,
// so "  ana   maría " becomes "Ana María".
func NormName(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	// cases.Caser keeps state and is not safe to share between goroutines.
	return cases.Title(language.Und).String(collapsed)
}

// NameKey is the value duplicate checks compare against.
func NameKey(s string) string {
	return strings.ToLower(NormName(s))
}
