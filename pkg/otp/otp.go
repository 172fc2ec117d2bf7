package otp

import (
	"strings"

	"github.com/xlzd/gotp"
)

// CodeLength is the number of digits in a generated code.
const CodeLength = 6

const secretLength = 32

type Generator interface {
	RandomCode() string
}

// GOTPGenerator derives each code from a fresh random TOTP secret, so
// consecutive codes are independent of each other.
type GOTPGenerator struct{}

func NewGOTPGenerator() *GOTPGenerator {
	return &GOTPGenerator{}
}

func (g *GOTPGenerator) RandomCode() string {
	totp := gotp.NewDefaultTOTP(gotp.RandomSecret(secretLength))

	return normalize(totp.Now())
}

// normalize left pads the code with zeros and keeps the last CodeLength digits.
func normalize(code string) string {
	if len(code) < CodeLength {
		code = strings.Repeat("0", CodeLength-len(code)) + code
	}

	return code[len(code)-CodeLength:]
}
