package services

import "strings"

// NormEmail trims s. An empty result means the client has no email.
// Case is preserved for display; comparisons go through the lower-cased key.
func NormEmail(s string) *string {
	e := strings.TrimSpace(s)
	if e == "" {
		return nil
	}
	return &e
}

// EmailKey is the value duplicate checks compare against.
func EmailKey(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
