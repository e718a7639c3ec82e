package services

import "strings"

// NormPhone trims p and returns nil when nothing is left.
// Phone numbers are stored as typed; no format is enforced.
func NormPhone(p string) *string {
	s := strings.TrimSpace(p)
	if s == "" {
		return nil
	}
	return &s
}
