package uid

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Chars is the set of characters a UID may contain.
const Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultLength is the number of characters in a generated UID.
// Do not modify after the catalog has been populated.
const DefaultLength = 10

// digitWeight biases generation toward digits so that identifiers look
// mostly numeric. Each digit carries this weight, each letter weight 1,
// which puts roughly 83% of generated characters in 0-9.
const digitWeight = 13

// maxAttempts bounds the regeneration loop. The identifier space is vastly
// larger than any realistic catalog, so hitting this cap means something is
// seriously wrong (for example a length of 1 with a full catalog).
const maxAttempts = 1 << 20

// weightedChars is Chars expanded according to the per-character weights.
var weightedChars = strings.Repeat("0123456789", digitWeight) + "abcdefghijklmnopqrstuvwxyz"

// Generate draws random UIDs of the given length until it finds one not
// present in existing. UIDs double as direct-access capability tokens, so
// generation uses crypto/rand rather than a seeded PRNG.
func Generate(length int, existing map[string]struct{}) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid uid length %d", length)
	}

	max := big.NewInt(int64(len(weightedChars)))
	var sb strings.Builder

	for attempt := 0; attempt < maxAttempts; attempt++ {
		sb.Reset()
		for i := 0; i < length; i++ {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", fmt.Errorf("random source failed: %w", err)
			}
			sb.WriteByte(weightedChars[n.Int64()])
		}
		candidate := sb.String()
		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("exhausted %d attempts generating a unique uid of length %d", maxAttempts, length)
}

// Valid reports whether s could have been produced by Generate with the
// given length: correct size and only characters from Chars.
func Valid(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(Chars, rune(s[i])) {
			return false
		}
	}
	return true
}
