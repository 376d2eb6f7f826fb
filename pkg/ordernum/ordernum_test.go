package ordernum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number, err := Generate()
		assert.NoError(t, err)
		assert.True(t, IsValid(number), "generated number %q must validate", number)
		assert.False(t, seen[number], "generated number %q repeated", number)
		seen[number] = true
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{name: "Missing prefix", number: "1234567890123452", valid: false},
		{name: "Wrong length", number: "ORD123", valid: false},
		{name: "Luhn check fails", number: "ORD1234567890123456", valid: false},
		{name: "Empty string", number: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValid(tt.number))
		})
	}
}
