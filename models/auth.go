// models/auth.go
package models

// SendOTPRequest is the body of POST /api/auth/send-otp.
type SendOTPRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Language string `json:"language,omitempty"`
}

// VerifyOTPRequest is the body of POST /api/auth/verify-otp (login flow).
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

// RegisterRequest is the body of POST /api/auth/register. The role-specific
// fields mirror the registration wizard: farmers send farmDetails, labourers
// send skills/experience/maxTravelDistance.
type RegisterRequest struct {
	Phone    string   `json:"phone" validate:"required"`
	OTP      string   `json:"otp" validate:"required"`
	Role     string   `json:"role" validate:"required,oneof=farmer labourer"`
	Language string   `json:"language" validate:"required,oneof=en hi mr"`
	Name     string   `json:"name" validate:"required"`
	Location Location `json:"location" validate:"required"`

	FarmDetails *FarmDetails `json:"farmDetails,omitempty"`

	Skills            []string `json:"skills,omitempty"`
	Experience        int      `json:"experience,omitempty"`
	MaxTravelDistance int      `json:"maxTravelDistance,omitempty"`
}

// AuthData is the success payload of verify-otp and register.
type AuthData struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
