// utils/valid.go
package utils

import (
	"errors"
	"html"
	"regexp"
	"strings"
	"unicode"
)

var indianMobileRegex = regexp.MustCompile(`^[6-9]\d{9}$`)

// SanitizeInput sanitizes user input to prevent XSS and injection attacks
func SanitizeInput(input string) string {
	// Trim spaces
	input = strings.TrimSpace(input)

	// HTML escape
	input = html.EscapeString(input)

	// Remove control characters
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)

	return input
}

// NormalizePhone strips everything but digits from a phone number, dropping an
// optional +91 country prefix so that stored phones are always the bare
// 10-digit form.
func NormalizePhone(phone string) string {
	digits := regexp.MustCompile(`[^0-9]`).ReplaceAllString(phone, "")
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	return digits
}

// IsValidIndianMobile reports whether phone is a 10-digit Indian mobile number
// (leading digit 6-9) after normalization.
func IsValidIndianMobile(phone string) bool {
	return indianMobileRegex.MatchString(NormalizePhone(phone))
}

// SanitizePhone normalizes and validates a phone number, returning the bare
// 10-digit form.
func SanitizePhone(phone string) (string, error) {
	normalized := NormalizePhone(phone)
	if !indianMobileRegex.MatchString(normalized) {
		return "", errors.New("invalid phone number")
	}
	return normalized, nil
}

// FormatPhoneNumber formats a 10-digit phone for display: +91 98765 43210.
func FormatPhoneNumber(phone string) string {
	cleaned := NormalizePhone(phone)
	if len(cleaned) == 10 {
		return "+91 " + cleaned[:5] + " " + cleaned[5:]
	}
	return phone
}

// E164 converts a normalized 10-digit Indian mobile to E.164 form for the SMS
// gateway.
func E164(phone string) string {
	cleaned := NormalizePhone(phone)
	if len(cleaned) == 10 {
		return "+91" + cleaned
	}
	if !strings.HasPrefix(phone, "+") {
		return "+" + cleaned
	}
	return phone
}

// SanitizeStringArray sanitizes an array of strings
func SanitizeStringArray(inputs []string) []string {
	sanitized := make([]string, len(inputs))
	for i, input := range inputs {
		sanitized[i] = SanitizeInput(input)
	}
	return sanitized
}
