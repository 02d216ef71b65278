package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateTrackingNumber returns a human-readable tracking identifier:
// a two-letter prefix followed by six digits. Uniqueness is best-effort;
// the collision probability is accepted as negligible.
func GenerateTrackingNumber() string {
	return generatePrefixedNumber("LB")
}

// GenerateTicketNumber returns a support ticket identifier in the same format.
func GenerateTicketNumber() string {
	return generatePrefixedNumber("TK")
}

func generatePrefixedNumber(prefix string) string {
	// Random number in [100000, 999999] so the suffix is always six digits
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		return fmt.Sprintf("%s100000", prefix)
	}
	return fmt.Sprintf("%s%06d", prefix, n.Int64()+100000)
}
