package token

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Session tokens are 5 characters drawn from an uppercase alphanumeric
// alphabet. Draw produces candidates only; uniqueness is enforced by the
// repository's reserve-if-absent create.
const (
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Length   = 5
)

func Draw() string {
	var b strings.Builder
	b.Grow(Length)
	bound := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, bound)
		if err != nil {
			// crypto/rand does not fail on supported platforms; index zero
			// keeps the draw total rather than aborting issuance.
			n = big.NewInt(0)
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String()
}
