package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const digitChars = "0123456789"

// RandomDigits returns a string of n random decimal digits, suitable for
// one-time codes delivered out of band.
func RandomDigits(n int) (string, error) {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		idx, err := RandomIntn(len(digitChars))
		if err != nil {
			return "", fmt.Errorf("generating random digit index: %w", err)
		}
		sb.WriteByte(digitChars[idx])
	}
	return sb.String(), nil
}

func RandomIntn(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("generating random number: %w", err)
	}
	return int(n.Int64()), nil
}

func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generating random bytes: %w", err)
	}
	return b, nil
}
