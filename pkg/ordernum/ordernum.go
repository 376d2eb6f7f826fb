package ordernum

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

const (
	prefix      = "ORD"
	digitLength = 16
)

// Generate returns a fresh order number: the ORD prefix followed by a
// Luhn-valid digit string.
func Generate() (string, error) {
	number := goluhn.Generate(digitLength)
	return prefix + number, nil
}

// IsValid reports whether s looks like a generated order number.
func IsValid(s string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	digits := strings.TrimPrefix(s, prefix)
	if len(digits) != digitLength {
		return false
	}
	return goluhn.Validate(digits) == nil
}
