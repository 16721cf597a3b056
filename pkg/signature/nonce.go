package signature

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
)

// maxUnbiased is the largest multiple of the alphabet size that fits in a
// byte. Bytes at or above it are rejected to keep every symbol equally
// likely.
const maxUnbiased = 256 - 256%len(constants.NonceAlphabet)

// GenerateNonce returns a random alphanumeric string of length n read
// from crypto/rand. A zero n yields the empty string; a negative n is a
// ValidationError.
func GenerateNonce(n int) (string, error) {
	return generateNonce(rand.Reader, n)
}

func generateNonce(r io.Reader, n int) (string, error) {
	if n < 0 {
		return "", errors.NewValidationError("length", n, "must not be negative")
	}
	if n == 0 {
		return "", nil
	}
	out := make([]byte, 0, n)
	buf := make([]byte, n+n/4+1)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", errors.NewEnvironmentError("random", fmt.Sprintf("read random source: %v", err))
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			out = append(out, constants.NonceAlphabet[int(b)%len(constants.NonceAlphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
