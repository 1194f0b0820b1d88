package token

import (
	"strings"
	"testing"
)

func TestDrawProducesTokensFromAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		drawn := Draw()
		if len(drawn) != Length {
			t.Fatalf("expected %d-character token, got %q", Length, drawn)
		}
		for _, char := range drawn {
			if !strings.ContainsRune(Alphabet, char) {
				t.Fatalf("token %q contains character outside alphabet", drawn)
			}
		}
	}
}
