// Package format renders predicted ratings as fixed three-decimal strings.
package format

import (
	"errors"
	"math"
	"math/big"
	"strings"
)

// ErrNonFinite is returned for NaN and infinite values.
var ErrNonFinite = errors.New("format: value is not finite")

const decimals = 3

// Rating3 rounds the exact binary value of v to three decimals, ties away
// from zero, and always prints three fractional digits.
func Rating3(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", ErrNonFinite
	}

	neg := math.Signbit(v)
	x := new(big.Rat).SetFloat64(math.Abs(v))

	// floor(|v| * 10^3 + 1/2)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil)
	x.Mul(x, new(big.Rat).SetInt(scale))
	x.Add(x, big.NewRat(1, 2))
	q := new(big.Int).Quo(x.Num(), x.Denom())

	digits := q.String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals+1-len(digits)) + digits
	}
	cut := len(digits) - decimals

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(digits[:cut])
	b.WriteByte('.')
	b.WriteString(digits[cut:])
	return b.String(), nil
}
