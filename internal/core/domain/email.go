package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeEmail returns the lookup key for an email address. Two addresses
// that differ only in case map to the same key.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
