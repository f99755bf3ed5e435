// services/sms_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SMSSender delivers a message to a phone number. Delivery failures are
// reported, never retried; resending is user-initiated.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// GatewaySMSService sends SMS through an HTTP bulk-SMS gateway (MSG91-style
// API: auth key, sender id, form-encoded body).
type GatewaySMSService struct {
	APIPath  string
	AuthKey  string
	SenderID string
	Route    string
	Client   *http.Client
}

// NewGatewaySMSService builds a gateway sender from environment configuration.
func NewGatewaySMSService(apiPath, authKey, senderID string) *GatewaySMSService {
	return &GatewaySMSService{
		APIPath:  apiPath,
		AuthKey:  authKey,
		SenderID: senderID,
		Route:    "otp",
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SendSMS posts the message to the gateway. The request carries a client
// reference id so delivery reports can be correlated in the gateway console.
func (s *GatewaySMSService) SendSMS(ctx context.Context, phone, message string) error {
	form := url.Values{}
	form.Set("authkey", s.AuthKey)
	form.Set("sender", s.SenderID)
	form.Set("mobiles", strings.TrimPrefix(phone, "+"))
	form.Set("message", message)
	form.Set("route", s.Route)
	form.Set("reference", uuid.NewString())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Agriconnect-OTP-Service/1.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read SMS response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	responseStr := strings.ToLower(strings.TrimSpace(string(body)))
	if strings.Contains(responseStr, "error") || strings.Contains(responseStr, "invalid") {
		return fmt.Errorf("SMS sending failed: %s", string(body))
	}
	return nil
}

// LogSMSService writes the message to the process log instead of sending it.
// Used in development when no gateway credentials are configured.
type LogSMSService struct {
	Logger *log.Logger
}

func (s *LogSMSService) SendSMS(_ context.Context, phone, message string) error {
	s.Logger.Printf("SMS to %s: %s", phone, message)
	return nil
}

// NewSMSSenderFromEnv returns the gateway sender when SMS_API_URL and
// SMS_AUTH_KEY are set, otherwise the log-only sender.
func NewSMSSenderFromEnv(logger *log.Logger) SMSSender {
	apiPath := os.Getenv("SMS_API_URL")
	authKey := os.Getenv("SMS_AUTH_KEY")
	senderID := os.Getenv("SMS_SENDER_ID")
	if senderID == "" {
		senderID = "AGRCNT"
	}
	if apiPath == "" || authKey == "" {
		logger.Println("SMS gateway not configured, OTP messages will be logged only")
		return &LogSMSService{Logger: logger}
	}
	return NewGatewaySMSService(apiPath, authKey, senderID)
}
