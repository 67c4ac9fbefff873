package gift

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// codeAlphabet deliberately drops glyphs that read ambiguously when shared
// by hand (0/O, 1/I/L, 5/S, 8/B).
const codeAlphabet = "ACDEFGHJKMNPQRTUVWXYZ234679"

const codeGroupLen = 4

var codePattern = regexp.MustCompile(
	fmt.Sprintf("^[%s]{%d}-[%s]{%d}$", codeAlphabet, codeGroupLen, codeAlphabet, codeGroupLen))

// NormalizeCode upper-cases and trims a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCodeFormat reports whether a normalized code matches the issued shape.
func ValidCodeFormat(code string) bool {
	return codePattern.MatchString(code)
}

// generateCode draws a fresh code from crypto/rand in the two-group format.
func generateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, 0, codeGroupLen*2+1)
	for i := 0; i < codeGroupLen*2; i++ {
		if i == codeGroupLen {
			buf = append(buf, '-')
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to draw random code char: %w", err)
		}
		buf = append(buf, codeAlphabet[n.Int64()])
	}
	return string(buf), nil
}
