package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomIntInRange returns a cryptographically random integer in [min, max].
func RandomIntInRange(min, max int64) (int64, error) {
	if min > max {
		return 0, fmt.Errorf("invalid range [%d, %d]", min, max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return min + n.Int64(), nil
}
