package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"+7 (999) 123-45-67": "79991234567",
		"8 999 123 45 67":    "79991234567",
		"9991234567":         "79991234567",
		"79991234567":        "79991234567",
		"":                   "7",
		"+1 555 0100":        "715550100",
		"abc":                "7",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"+7 (999) 123-45-67", "8 999 123 45 67", "9991234567", "", "12345", "8"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "79991234567", Digits("+7 (999) 123-45-67"))
	assert.Equal(t, "", Digits("phone"))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "*******4567", Mask("79991234567"))
	assert.Equal(t, "***", Mask("123"))
	assert.Equal(t, "", Mask(""))
}
