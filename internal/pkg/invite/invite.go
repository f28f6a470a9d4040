// Package invite generates join codes for private communities.
package invite

import (
	"crypto/rand"
	"fmt"
)

// CodeLength is the length of every generated join code.
const CodeLength = 8

// alphabet omits characters that read ambiguously (0/O, 1/I/L).
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// maxByte is the largest byte value usable without modulo bias. Bytes at or
// above it are rejected and redrawn so every letter is equally likely.
const maxByte = 256 - 256%len(alphabet)

// NewCode returns a random join code. Codes are not guaranteed unique by
// construction; the communities table enforces uniqueness and callers retry
// on collision.
func NewCode() (string, error) {
	code := make([]byte, 0, CodeLength)
	buf := make([]byte, CodeLength)

	for len(code) < CodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == CodeLength {
				break
			}
		}
	}

	return string(code), nil
}
