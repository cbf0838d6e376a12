package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomIndex returns a uniform random index in [0, n).
func RandomIndex(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cannot pick from %d items", n)
	}

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random index: %w", err)
	}

	return int(idx.Int64()), nil
}
