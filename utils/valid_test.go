package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9876543210", "9876543210"},
		{"+919876543210", "9876543210"},
		{"+91 98765 43210", "9876543210"},
		{"91-9876543210", "9876543210"},
		{"098765", "098765"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

func TestIsValidIndianMobile(t *testing.T) {
	valid := []string{"9876543210", "6000000000", "+917012345678", "+91 88888 88888"}
	for _, phone := range valid {
		assert.True(t, IsValidIndianMobile(phone), "expected %q to be valid", phone)
	}

	invalid := []string{"", "12345", "5876543210", "98765432101", "abcdefghij", "+14155552671"}
	for _, phone := range invalid {
		assert.False(t, IsValidIndianMobile(phone), "expected %q to be invalid", phone)
	}
}

func TestSanitizePhone(t *testing.T) {
	got, err := SanitizePhone("+91 98765 43210")
	assert.NoError(t, err)
	assert.Equal(t, "9876543210", got)

	_, err = SanitizePhone("12345")
	assert.Error(t, err)
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "+91 98765 43210", FormatPhoneNumber("9876543210"))
	assert.Equal(t, "+91 98765 43210", FormatPhoneNumber("+919876543210"))
	// Anything that does not normalize to 10 digits passes through unchanged.
	assert.Equal(t, "12345", FormatPhoneNumber("12345"))
}

func TestE164(t *testing.T) {
	assert.Equal(t, "+919876543210", E164("9876543210"))
	assert.Equal(t, "+919876543210", E164("+91 98765 43210"))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "Ramesh", SanitizeInput("  Ramesh  "))
	assert.Equal(t, "&lt;script&gt;", SanitizeInput("<script>"))
	assert.Equal(t, "ab", SanitizeInput("a\x00b"))
}

func TestSanitizeStringArray(t *testing.T) {
	got := SanitizeStringArray([]string{" harvesting ", "<b>sowing</b>"})
	assert.Equal(t, []string{"harvesting", "&lt;b&gt;sowing&lt;/b&gt;"}, got)
}
