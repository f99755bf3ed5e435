package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
	"github.com/agriconnect/agriconnect_backend/services"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

// fakeUserStore is an in-memory stand-in for the Mongo-backed repository.
type fakeUserStore struct {
	mu      sync.Mutex
	byPhone map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byPhone: map[string]*models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byPhone[user.Phone]; exists {
		return repositories.ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	f.byPhone[user.Phone] = user
	return nil
}

func (f *fakeUserStore) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byPhone[phone]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byPhone {
		if user.ID == id {
			user.IsVerified = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

// smsInbox keeps the last SMS per flow so tests can read the code back.
type smsInbox struct {
	mu   sync.Mutex
	last string
}

func (s *smsInbox) SendSMS(_ context.Context, _, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = message
	return nil
}

var inboxCodePattern = regexp.MustCompile(`\d{6}`)

func (s *smsInbox) code(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	code := inboxCodePattern.FindString(s.last)
	require.NotEmpty(t, code)
	return code
}

func newAuthTestRig() (*echo.Echo, *AuthController, *smsInbox, *fakeUserStore) {
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}

	logger := log.New(io.Discard, "", 0)
	inbox := &smsInbox{}
	users := newFakeUserStore()

	otp := services.NewOTPService(services.NewMemoryOTPStore(), inbox, logger)
	auth := services.NewAuthService(users, otp, func(userID, phone, role string) (string, error) {
		return "test-token", nil
	}, logger)

	return e, NewAuthController(auth), inbox, users
}

func postJSON(e *echo.Echo, handler echo.HandlerFunc, body string) (*httptest.ResponseRecorder, models.Response) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = handler(c)

	var resp models.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestSendOTPInvalidPhone(t *testing.T) {
	e, ac, _, _ := newAuthTestRig()

	rec, resp := postJSON(e, ac.SendOTP, `{"phone":"12345"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Please enter a valid phone number", resp.Message)
}

func TestSendOTPLocalizedMessage(t *testing.T) {
	e, ac, _, _ := newAuthTestRig()

	rec, resp := postJSON(e, ac.SendOTP, `{"phone":"9876543210","language":"hi"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "OTP आपके फोन नंबर पर भेजा गया है", resp.Message)
}

func TestVerifyOTPUnknownPhoneRedirectsToRegister(t *testing.T) {
	e, ac, inbox, _ := newAuthTestRig()

	rec, _ := postJSON(e, ac.SendOTP, `{"phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := postJSON(e, ac.VerifyOTP, `{"phone":"9876543210","otp":"`+inbox.code(t)+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "/register", resp.RedirectTo)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	e, ac, inbox, _ := newAuthTestRig()

	rec, _ := postJSON(e, ac.SendOTP, `{"phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	wrong := "000000"
	if inbox.code(t) == wrong {
		wrong = "000001"
	}
	rec, resp := postJSON(e, ac.VerifyOTP, `{"phone":"9876543210","otp":"`+wrong+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid OTP", resp.Message)
}

func TestRegisterThenLoginFlow(t *testing.T) {
	e, ac, inbox, _ := newAuthTestRig()

	// Register a farmer with a fresh code.
	rec, _ := postJSON(e, ac.SendOTP, `{"phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	registerBody := `{
		"phone":"9876543210","otp":"` + inbox.code(t) + `",
		"role":"farmer","language":"mr","name":"Ramesh",
		"location":{"state":"Maharashtra","district":"Nashik","village":"Ozar"}
	}`
	rec, resp := postJSON(e, ac.Register, registerBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "test-token", data["token"])
	user, ok := data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "farmer", user["role"])
	assert.Equal(t, "mr", user["language"])
	assert.Equal(t, true, user["isVerified"])

	// A second registration for the same phone conflicts.
	rec, _ = postJSON(e, ac.SendOTP, `{"phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, resp = postJSON(e, ac.Register, `{
		"phone":"9876543210","otp":"`+inbox.code(t)+`",
		"role":"farmer","language":"en","name":"Ramesh",
		"location":{"state":"Maharashtra","district":"Nashik"}
	}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "/login", resp.RedirectTo)

	// Login now succeeds.
	rec, _ = postJSON(e, ac.SendOTP, `{"phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, resp = postJSON(e, ac.VerifyOTP, `{"phone":"9876543210","otp":"`+inbox.code(t)+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
}

func TestRegisterMissingFields(t *testing.T) {
	e, ac, _, _ := newAuthTestRig()

	rec, resp := postJSON(e, ac.Register, `{"phone":"9876543210","otp":"123456","role":"farmer"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestRegisterRequiresLocation(t *testing.T) {
	e, ac, inbox, _ := newAuthTestRig()

	rec, _ := postJSON(e, ac.SendOTP, `{"phone":"9876543210"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	code := inbox.code(t)

	// No location at all.
	rec, resp := postJSON(e, ac.Register, `{
		"phone":"9876543210","otp":"`+code+`",
		"role":"labourer","language":"en","name":"Suresh"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)

	// A location without state/district is just as incomplete.
	rec, resp = postJSON(e, ac.Register, `{
		"phone":"9876543210","otp":"`+code+`",
		"role":"labourer","language":"en","name":"Suresh",
		"location":{"village":"Ozar"}
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}
