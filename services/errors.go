// services/errors.go
package services

import "errors"

// Auth flow sentinel errors. Controllers map these onto HTTP statuses and
// localized messages; everything else is treated as an internal error.
var (
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrOTPNotFound       = errors.New("otp not found")
	ErrOTPExpired        = errors.New("otp expired")
	ErrOTPMismatch       = errors.New("otp mismatch")
	ErrTooManyAttempts   = errors.New("too many otp attempts")
	ErrSMSDelivery       = errors.New("sms delivery failed")
	ErrMustRegister      = errors.New("user must register")
	ErrAlreadyRegistered = errors.New("user already registered")
)
