package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateNumericCode returns a uniformly random code of exactly digits decimal
// digits with no leading zero, e.g. 100000-999999 for six digits.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("digits must be between 1 and 18, got %d", digits)
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	high := new(big.Int).Mul(low, big.NewInt(10))
	span := new(big.Int).Sub(high, low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return n.Add(n, low).String(), nil
}
