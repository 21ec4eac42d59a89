package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const charset = "0123456789"

// Generate produces a numeric one-time code of the given length. Each digit
// comes from crypto/rand, so codes are unpredictable.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("otp length must be positive, got %d", length)
	}

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		code[i] = charset[n.Int64()]
	}
	return string(code), nil
}
