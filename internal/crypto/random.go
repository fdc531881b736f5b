package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// RandomBytes reads n bytes from r. A nil reader uses crypto/rand.
func RandomBytes(r io.Reader, n int) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}
