// utils/i18n.go
package utils

import "fmt"

// Server-side message catalog for the auth flow. The client UI carries its own
// translation tables; these strings cover SMS bodies and API responses that
// must be readable before the user has picked a language in the app.

// Message keys
const (
	MsgInvalidPhone    = "invalid_phone"
	MsgOTPSent         = "otp_sent"
	MsgOTPSendFailed   = "otp_send_failed"
	MsgOTPNotFound     = "otp_not_found"
	MsgOTPExpired      = "otp_expired"
	MsgOTPMismatch     = "otp_mismatch"
	MsgTooManyAttempts = "otp_too_many_attempts"
	MsgMustRegister    = "must_register"
	MsgAlreadyExists   = "already_registered"
	MsgLoginSuccess    = "login_success"
	MsgRegistered      = "register_success"
	MsgInternalError   = "internal_error"
	MsgMissingFields   = "missing_fields"
)

var messages = map[string]map[string]string{
	MsgInvalidPhone: {
		"en": "Please enter a valid phone number",
		"hi": "कृपया एक वैध फोन नंबर दर्ज करें",
		"mr": "कृपया वैध फोन नंबर टाका",
	},
	MsgOTPSent: {
		"en": "OTP has been sent to your phone number",
		"hi": "OTP आपके फोन नंबर पर भेजा गया है",
		"mr": "OTP आपल्या फोन नंबरवर पाठवला आहे",
	},
	MsgOTPSendFailed: {
		"en": "Failed to send OTP. Please try again.",
		"hi": "OTP भेजने में समस्या हुई। कृपया पुनः प्रयास करें।",
		"mr": "OTP पाठवण्यात समस्या झाली. कृपया पुन्हा प्रयत्न करा.",
	},
	MsgOTPNotFound: {
		"en": "OTP not found or expired",
		"hi": "OTP नहीं मिला या समाप्त हो गया है",
		"mr": "OTP सापडला नाही किंवा कालबाह्य झाला आहे",
	},
	MsgOTPExpired: {
		"en": "OTP has expired",
		"hi": "OTP समाप्त हो गया है",
		"mr": "OTP कालबाह्य झाला आहे",
	},
	MsgOTPMismatch: {
		"en": "Invalid OTP",
		"hi": "अमान्य OTP",
		"mr": "अवैध OTP",
	},
	MsgTooManyAttempts: {
		"en": "Too many attempts. Please request a new OTP.",
		"hi": "बहुत अधिक प्रयास। कृपया नया OTP मांगें।",
		"mr": "खूप जास्त प्रयत्न. कृपया नवीन OTP मागा.",
	},
	MsgMustRegister: {
		"en": "User not found. Please register first.",
		"hi": "उपयोगकर्ता नहीं मिला। कृपया पहले पंजीकरण करें।",
		"mr": "वापरकर्ता सापडला नाही. कृपया आधी नोंदणी करा.",
	},
	MsgAlreadyExists: {
		"en": "User already exists. Please login instead.",
		"hi": "उपयोगकर्ता पहले से मौजूद है। कृपया लॉगिन करें।",
		"mr": "वापरकर्ता आधीच अस्तित्वात आहे. कृपया लॉगिन करा.",
	},
	MsgLoginSuccess: {
		"en": "Login successful",
		"hi": "लॉगिन सफल",
		"mr": "लॉगिन यशस्वी",
	},
	MsgRegistered: {
		"en": "Registration successful",
		"hi": "पंजीकरण सफल",
		"mr": "नोंदणी यशस्वी",
	},
	MsgInternalError: {
		"en": "Internal server error",
		"hi": "आंतरिक सर्वर त्रुटि",
		"mr": "अंतर्गत सर्व्हर त्रुटी",
	},
	MsgMissingFields: {
		"en": "Missing required fields",
		"hi": "आवश्यक फ़ील्ड अनुपस्थित हैं",
		"mr": "आवश्यक फील्ड गहाळ आहेत",
	},
}

// NormalizeLanguage falls back to English for anything outside en/hi/mr.
func NormalizeLanguage(lang string) string {
	switch lang {
	case "hi", "mr":
		return lang
	default:
		return "en"
	}
}

// Localize returns the message for key in the given language, falling back to
// English when the key or language is unknown.
func Localize(key, lang string) string {
	byLang, ok := messages[key]
	if !ok {
		return key
	}
	if msg, ok := byLang[NormalizeLanguage(lang)]; ok {
		return msg
	}
	return byLang["en"]
}

// OTPMessage builds the SMS body carrying the verification code.
func OTPMessage(code, lang string) string {
	switch NormalizeLanguage(lang) {
	case "hi":
		return fmt.Sprintf("आपका Agriconnect सत्यापन कोड है: %s. 10 मिनट के लिए वैध।", code)
	case "mr":
		return fmt.Sprintf("तुमचा Agriconnect सत्यापन कोड आहे: %s. 10 मिनिटांसाठी वैध.", code)
	default:
		return fmt.Sprintf("Your Agriconnect verification code is: %s. Valid for 10 minutes.", code)
	}
}
