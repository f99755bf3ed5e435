package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "en", NormalizeLanguage(""))
	assert.Equal(t, "en", NormalizeLanguage("en"))
	assert.Equal(t, "hi", NormalizeLanguage("hi"))
	assert.Equal(t, "mr", NormalizeLanguage("mr"))
	assert.Equal(t, "en", NormalizeLanguage("fr"))
}

func TestLocalize(t *testing.T) {
	assert.Equal(t, "OTP has been sent to your phone number", Localize(MsgOTPSent, "en"))
	assert.Equal(t, "OTP आपके फोन नंबर पर भेजा गया है", Localize(MsgOTPSent, "hi"))
	assert.Equal(t, "OTP आपल्या फोन नंबरवर पाठवला आहे", Localize(MsgOTPSent, "mr"))

	// Unknown language falls back to English.
	assert.Equal(t, "Invalid OTP", Localize(MsgOTPMismatch, "de"))

	// Unknown key comes back as the key itself.
	assert.Equal(t, "no_such_key", Localize("no_such_key", "en"))
}

func TestEveryMessageHasAllLanguages(t *testing.T) {
	for key, byLang := range messages {
		for _, lang := range []string{"en", "hi", "mr"} {
			assert.NotEmpty(t, byLang[lang], "message %s missing %s translation", key, lang)
		}
	}
}

func TestOTPMessage(t *testing.T) {
	for _, lang := range []string{"en", "hi", "mr"} {
		msg := OTPMessage("123456", lang)
		assert.True(t, strings.Contains(msg, "123456"), "code missing from %s template", lang)
		assert.True(t, strings.Contains(msg, "10"), "validity missing from %s template", lang)
	}
}
