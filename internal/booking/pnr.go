package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// generatePNR generates a unique 10-character locator code. Vowels and
// look-alike characters are excluded so codes survive being read aloud.
func generatePNR() (string, error) {
	const alphabet = "BCDFGHJKLMNPQRSTVWXZ23456789"
	code := make([]byte, 10)

	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate PNR: %w", err)
		}
		code[i] = alphabet[num.Int64()]
	}

	return string(code), nil
}
