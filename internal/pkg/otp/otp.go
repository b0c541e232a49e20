// Package otp generates numeric one-time codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of digits in a login code.
const Length = 6

// Generate returns a uniformly random 6-digit code in 100000..999999.
func Generate() string {
	return GenerateN(Length)
}

// GenerateN returns a uniformly random n-digit code without a leading zero.
// n below 1 is treated as 1.
func GenerateN(n int) string {
	if n < 1 {
		n = 1
	}
	lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	hi := new(big.Int).Mul(lo, big.NewInt(10))
	if n == 1 {
		lo = big.NewInt(0)
	}
	span := new(big.Int).Sub(hi, lo)
	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("otp: read random: %v", err))
	}
	return v.Add(v, lo).String()
}
