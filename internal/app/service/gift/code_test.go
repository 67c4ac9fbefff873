package gift

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	require.Equal(t, "ACDE-2346", NormalizeCode("  acde-2346 "))
	require.Equal(t, "ACDE-2346", NormalizeCode("ACDE-2346"))
}

func TestValidCodeFormat(t *testing.T) {
	require.True(t, ValidCodeFormat("ACDE-2346"))

	invalid := []string{
		"",
		"ACDE2346",      // missing separator
		"ACDE-234",      // short group
		"ACDEF-2346",    // long group
		"AB0O-2346",     // ambiguous glyphs excluded from the alphabet
		"acde-2346",     // lowercase is rejected, callers normalize first
		"ACDE-2346-XYZ", // extra group
	}
	for _, code := range invalid {
		require.False(t, ValidCodeFormat(code), "code %q", code)
	}
}

func TestGenerateCode_ShapeAndAlphabet(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.True(t, ValidCodeFormat(code), "generated %q", code)
		for _, ch := range strings.ReplaceAll(code, "-", "") {
			require.Contains(t, codeAlphabet, string(ch))
		}
		seen[code] = true
	}
	// 27^8 combinations: 200 draws colliding would mean a broken generator
	require.Greater(t, len(seen), 195)
}
