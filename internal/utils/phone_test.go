package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"whatsapp prefix with formatting", "whatsapp:+1 (555) 123-4567", "+15551234567"},
		{"plain digits", "15551234567", "+15551234567"},
		{"already normalized", "+15551234567", "+15551234567"},
		{"spaces and dashes", " +91 98765-43210 ", "+919876543210"},
		{"empty", "", ""},
		{"no digits at all", "whatsapp:+-() ", ""},
		{"letters only", "notaphone", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"whatsapp:+1 (555) 123-4567", "+919876543210", "555 0100", ""}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once), "input %q", in)
	}
}

func TestLastDigits(t *testing.T) {
	assert.Equal(t, "5551234567", LastDigits("whatsapp:+1 (555) 123-4567", 10))
	assert.Equal(t, "15551234567", LastDigits("+15551234567", 15))
	assert.Equal(t, "", LastDigits("no digits", 10))
}
