package otp

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestGenerate_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := Generate()
		require.Regexp(t, sixDigits, code)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGenerate_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[Generate()] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerateN(t *testing.T) {
	assert.Len(t, GenerateN(4), 4)
	assert.Len(t, GenerateN(8), 8)
	assert.Len(t, GenerateN(1), 1)
	assert.Len(t, GenerateN(0), 1)
}
