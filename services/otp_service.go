// services/otp_service.go
package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/utils"
)

const (
	otpValidity    = 10 * time.Minute
	maxOTPAttempts = 3
)

// OTPService issues verification codes over SMS and validates submissions
// against the store.
type OTPService struct {
	store  OTPStore
	sms    SMSSender
	logger *log.Logger
}

// NewOTPService creates an OTP issuer/verifier over the given store and SMS
// sender.
func NewOTPService(store OTPStore, sms SMSSender, logger *log.Logger) *OTPService {
	return &OTPService{store: store, sms: sms, logger: logger}
}

// GenerateOTP returns a uniformly random 6-digit code (100000-999999).
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Issue validates the phone, generates and stores a code, and hands it to the
// SMS collaborator with the language-specific template. Any previous pending
// code for the phone is overwritten and its attempt counter reset.
func (s *OTPService) Issue(ctx context.Context, phone, language string) error {
	normalized, err := utils.SanitizePhone(phone)
	if err != nil {
		return ErrInvalidPhone
	}

	code, err := GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash OTP: %w", err)
	}

	entry := models.PendingOTP{
		Phone:     normalized,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(otpValidity),
		Attempts:  0,
	}
	if err := s.store.Put(ctx, entry); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	message := utils.OTPMessage(code, language)
	if err := s.sms.SendSMS(ctx, utils.E164(normalized), message); err != nil {
		s.logger.Printf("OTP delivery failed for %s: %v", normalized, err)
		return fmt.Errorf("%w: %v", ErrSMSDelivery, err)
	}
	return nil
}

// Verify checks a submitted code. Failure checks run in a fixed order:
// not-found, attempt limit, expiry, mismatch. The attempt limit is enforced
// before expiry, so a hammered entry is invalidated even after it has lapsed.
// A correct code consumes the entry exactly once: if another request deleted
// it first, the result is not-found.
func (s *OTPService) Verify(ctx context.Context, phone, code string) error {
	normalized, err := utils.SanitizePhone(phone)
	if err != nil {
		return ErrInvalidPhone
	}

	entry, err := s.store.Get(ctx, normalized)
	if err != nil {
		return err
	}

	if entry.Attempts >= maxOTPAttempts {
		if _, err := s.store.Delete(ctx, normalized); err != nil {
			s.logger.Printf("failed to delete OTP for %s: %v", normalized, err)
		}
		return ErrTooManyAttempts
	}

	if time.Now().After(entry.ExpiresAt) {
		if _, err := s.store.Delete(ctx, normalized); err != nil {
			s.logger.Printf("failed to delete OTP for %s: %v", normalized, err)
		}
		return ErrOTPExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(entry.CodeHash), []byte(code)) != nil {
		if err := s.store.IncrementAttempts(ctx, normalized); err != nil {
			s.logger.Printf("failed to record OTP attempt for %s: %v", normalized, err)
		}
		return ErrOTPMismatch
	}

	deleted, err := s.store.Delete(ctx, normalized)
	if err != nil {
		return fmt.Errorf("failed to consume OTP: %w", err)
	}
	if !deleted {
		return ErrOTPNotFound
	}
	return nil
}

// StartSweeper deletes expired entries on a fixed tick until the context is
// cancelled. Run it from main in its own goroutine.
func (s *OTPService) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.store.SweepExpired(ctx)
		}
	}
}
