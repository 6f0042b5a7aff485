package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Code alphabet excludes 0/O and 1/I to keep manual entry unambiguous.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTicketCode creates a human-readable unique ticket code of
// the form LUME-XXXX-XXXX.
func GenerateTicketCode() string {
	var b strings.Builder
	b.WriteString("LUME")
	for group := 0; group < 2; group++ {
		b.WriteByte('-')
		for i := 0; i < 4; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			if err != nil {
				// crypto/rand should not fail; fall back to a fixed char
				// rather than panicking in the request path.
				b.WriteByte('X')
				continue
			}
			b.WriteByte(codeAlphabet[n.Int64()])
		}
	}
	return b.String()
}

// NormalizeTicketCode uppercases and trims a manually entered code.
func NormalizeTicketCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateMessageID creates an id for outbound notification payloads.
func GenerateMessageID(prefix string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(999999999))
	return fmt.Sprintf("%s_%09d", prefix, n.Int64())
}
