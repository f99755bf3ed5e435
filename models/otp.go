package models

import (
	"time"
)

// PendingOTP is the single in-flight verification code for a phone number.
// The code is stored as a bcrypt hash; the plaintext only ever travels in the
// SMS. At most one non-expired entry exists per phone.
type PendingOTP struct {
	Phone     string    `json:"phone" bson:"phone"`
	CodeHash  string    `json:"codeHash" bson:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
	Attempts  int       `json:"attempts" bson:"attempts"`
}
