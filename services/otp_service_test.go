package services

import (
	"context"
	"errors"
	"io"
	"log"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/agriconnect/agriconnect_backend/models"
)

// captureSMS records the last message instead of sending it.
type captureSMS struct {
	phone   string
	message string
	err     error
	calls   int
}

func (c *captureSMS) SendSMS(_ context.Context, phone, message string) error {
	c.calls++
	c.phone = phone
	c.message = message
	return c.err
}

var codePattern = regexp.MustCompile(`\d{6}`)

func (c *captureSMS) lastCode(t *testing.T) string {
	t.Helper()
	code := codePattern.FindString(c.message)
	require.NotEmpty(t, code, "no 6-digit code in SMS body: %q", c.message)
	return code
}

func newTestOTPService(sms SMSSender) (*OTPService, *MemoryOTPStore) {
	store := NewMemoryOTPStore()
	logger := log.New(io.Discard, "", 0)
	return NewOTPService(store, sms, logger), store
}

func TestGenerateOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestIssueAndVerify(t *testing.T) {
	sms := &captureSMS{}
	svc, _ := newTestOTPService(sms)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "9876543210", "en"))
	assert.Equal(t, "+919876543210", sms.phone)

	code := sms.lastCode(t)
	require.NoError(t, svc.Verify(ctx, "9876543210", code))

	// The code is consumed on success.
	assert.ErrorIs(t, svc.Verify(ctx, "9876543210", code), ErrOTPNotFound)
}

func TestIssueAcceptsCountryPrefix(t *testing.T) {
	sms := &captureSMS{}
	svc, _ := newTestOTPService(sms)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "+91 98765 43210", "hi"))

	// Verification with the bare form hits the same entry.
	code := sms.lastCode(t)
	assert.NoError(t, svc.Verify(ctx, "9876543210", code))
}

func TestIssueInvalidPhone(t *testing.T) {
	sms := &captureSMS{}
	svc, _ := newTestOTPService(sms)

	err := svc.Issue(context.Background(), "12345", "en")
	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.Zero(t, sms.calls)
}

func TestIssueSMSFailure(t *testing.T) {
	sms := &captureSMS{err: errors.New("gateway down")}
	svc, _ := newTestOTPService(sms)

	err := svc.Issue(context.Background(), "9876543210", "en")
	assert.ErrorIs(t, err, ErrSMSDelivery)
}

func TestIssueOverwritesPreviousCode(t *testing.T) {
	sms := &captureSMS{}
	svc, _ := newTestOTPService(sms)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "9876543210", "en"))
	first := sms.lastCode(t)

	require.NoError(t, svc.Issue(ctx, "9876543210", "en"))
	second := sms.lastCode(t)

	if first == second {
		t.Skip("codes collided, cannot distinguish old from new")
	}

	assert.ErrorIs(t, svc.Verify(ctx, "9876543210", first), ErrOTPMismatch)
	assert.NoError(t, svc.Verify(ctx, "9876543210", second))
}

func TestVerifyUnknownPhone(t *testing.T) {
	svc, _ := newTestOTPService(&captureSMS{})

	err := svc.Verify(context.Background(), "9876543210", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyAttemptLimit(t *testing.T) {
	sms := &captureSMS{}
	svc, _ := newTestOTPService(sms)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, "9876543210", "en"))
	code := sms.lastCode(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, svc.Verify(ctx, "9876543210", wrong), ErrOTPMismatch)
	}

	// The limit is enforced even for the correct code, and hitting it
	// invalidates the entry.
	assert.ErrorIs(t, svc.Verify(ctx, "9876543210", code), ErrTooManyAttempts)
	assert.ErrorIs(t, svc.Verify(ctx, "9876543210", code), ErrOTPNotFound)
}

func TestVerifyExpired(t *testing.T) {
	svc, store := newTestOTPService(&captureSMS{})
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, models.PendingOTP{
		Phone:     "9876543210",
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	assert.ErrorIs(t, svc.Verify(ctx, "9876543210", "123456"), ErrOTPExpired)
	// Expiry consumes the entry too.
	assert.ErrorIs(t, svc.Verify(ctx, "9876543210", "123456"), ErrOTPNotFound)
}

func TestVerifyInvalidPhone(t *testing.T) {
	svc, _ := newTestOTPService(&captureSMS{})

	err := svc.Verify(context.Background(), "notaphone", "123456")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}
