package util

import (
	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKD normalization so that visually identical usernames
// and passphrases compare equal regardless of the client's input method.
func Normalize(s string) string {
	return norm.NFKD.String(s)
}
