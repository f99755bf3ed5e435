// services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
	"github.com/agriconnect/agriconnect_backend/utils"
)

// UserStore is the slice of the user repository the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
}

// TokenIssuer mints a signed session token for the given identity.
type TokenIssuer func(userID, phone, role string) (string, error)

const defaultMaxTravelDistance = 50 // km

// AuthService sequences phone verification, account lookup/creation, and
// token issuance.
type AuthService struct {
	users      UserStore
	otp        *OTPService
	issueToken TokenIssuer
	logger     *log.Logger
}

func NewAuthService(users UserStore, otp *OTPService, issueToken TokenIssuer, logger *log.Logger) *AuthService {
	return &AuthService{users: users, otp: otp, issueToken: issueToken, logger: logger}
}

// SendOTP issues a fresh code for the phone. Re-sending overwrites the
// previous pending code.
func (s *AuthService) SendOTP(ctx context.Context, phone, language string) error {
	return s.otp.Issue(ctx, phone, language)
}

// Login verifies the submitted code and signs in an existing account. An
// unknown phone after a valid code is the "must register" outcome, not an
// error in the OTP flow.
func (s *AuthService) Login(ctx context.Context, phone, code string) (*models.AuthData, error) {
	if err := s.otp.Verify(ctx, phone, code); err != nil {
		return nil, err
	}

	normalized, err := utils.SanitizePhone(phone)
	if err != nil {
		return nil, ErrInvalidPhone
	}

	user, err := s.users.FindByPhone(ctx, normalized)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrMustRegister
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	if !user.IsVerified {
		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to mark user verified: %w", err)
		}
		user.IsVerified = true
	}

	token, err := s.issueToken(user.ID.Hex(), user.Phone, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.AuthData{Token: token, User: user.PublicView()}, nil
}

// Register verifies the code and creates the account. Uniqueness is enforced
// by the insert itself (unique phone index), so concurrent registrations for
// one phone cannot both win.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthData, error) {
	if err := s.otp.Verify(ctx, req.Phone, req.OTP); err != nil {
		return nil, err
	}

	normalized, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return nil, ErrInvalidPhone
	}

	user := &models.User{
		Phone:      normalized,
		Role:       req.Role,
		Language:   utils.NormalizeLanguage(req.Language),
		IsVerified: true,
		Profile:    buildProfile(req),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(user.ID.Hex(), user.Phone, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Printf("registered new %s account for %s", user.Role, utils.FormatPhoneNumber(user.Phone))
	return &models.AuthData{Token: token, User: user.PublicView()}, nil
}

// buildProfile constructs the role-discriminated profile with the same
// defaults the registration wizard applies.
func buildProfile(req models.RegisterRequest) models.Profile {
	profile := models.Profile{
		Name:     utils.SanitizeInput(req.Name),
		Location: req.Location,
	}

	switch req.Role {
	case models.RoleFarmer:
		details := &models.FarmerDetails{}
		if req.FarmDetails != nil {
			details.FarmDetails = *req.FarmDetails
		}
		if details.FarmDetails.PrimaryCrops == nil {
			details.FarmDetails.PrimaryCrops = []string{}
		}
		profile.Farmer = details
	case models.RoleLabourer:
		skills := req.Skills
		if skills == nil {
			skills = []string{}
		}
		maxTravel := req.MaxTravelDistance
		if maxTravel == 0 {
			maxTravel = defaultMaxTravelDistance
		}
		profile.Labourer = &models.LabourerDetails{
			Skills:     skills,
			Experience: req.Experience,
			Availability: models.Availability{
				IsAvailable:        true,
				PreferredWorkTypes: skills,
				MaxTravelDistance:  maxTravel,
			},
		}
	}
	return profile
}
