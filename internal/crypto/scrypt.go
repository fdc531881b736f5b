package crypto

import (
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// Scrypt stretches password with salt using N = 2^costExponent.
func Scrypt(password, salt []byte, costExponent, r, p, keyLen int) ([]byte, error) {
	if costExponent < 1 || costExponent > MaxScryptCostExponent {
		return nil, fmt.Errorf("%w: cost exponent %d out of range [1, %d]", ErrInvalidScryptParams, costExponent, MaxScryptCostExponent)
	}
	if r < 1 || p < 1 || uint64(r)*uint64(p) >= 1<<30 {
		return nil, fmt.Errorf("%w: r=%d p=%d", ErrInvalidScryptParams, r, p)
	}
	if keyLen < 1 {
		return nil, fmt.Errorf("%w: key length %d", ErrInvalidScryptParams, keyLen)
	}

	key, err := scrypt.Key(password, salt, 1<<costExponent, r, p, keyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScryptParams, err)
	}
	return key, nil
}
