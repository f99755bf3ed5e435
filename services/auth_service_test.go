package services

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/agriconnect/agriconnect_backend/models"
	"github.com/agriconnect/agriconnect_backend/repositories"
)

// --- Mock user store ---

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserStore) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func staticToken(userID, phone, role string) (string, error) {
	return "token-" + role, nil
}

func newTestAuthService(t *testing.T, users *mockUserStore) (*AuthService, *MemoryOTPStore) {
	t.Helper()
	store := NewMemoryOTPStore()
	logger := log.New(io.Discard, "", 0)
	otp := NewOTPService(store, &captureSMS{}, logger)
	return NewAuthService(users, otp, staticToken, logger), store
}

// seedOTP plants a pending code for the phone.
func seedOTP(t *testing.T, store *MemoryOTPStore, phone, code string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), models.PendingOTP{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}))
}

func TestLoginUnknownPhoneMustRegister(t *testing.T) {
	users := new(mockUserStore)
	svc, store := newTestAuthService(t, users)
	seedOTP(t, store, "9876543210", "123456")

	users.On("FindByPhone", mock.Anything, "9876543210").Return(nil, repositories.ErrNotFound)

	_, err := svc.Login(context.Background(), "9876543210", "123456")
	assert.ErrorIs(t, err, ErrMustRegister)
	users.AssertExpectations(t)
}

func TestLoginSuccess(t *testing.T) {
	users := new(mockUserStore)
	svc, store := newTestAuthService(t, users)
	seedOTP(t, store, "9876543210", "123456")

	existing := &models.User{
		ID:         primitive.NewObjectID(),
		Phone:      "9876543210",
		Role:       models.RoleFarmer,
		Language:   "hi",
		IsVerified: true,
		Profile:    models.Profile{Name: "Ramesh"},
	}
	users.On("FindByPhone", mock.Anything, "9876543210").Return(existing, nil)

	data, err := svc.Login(context.Background(), "9876543210", "123456")
	require.NoError(t, err)
	assert.Equal(t, "token-farmer", data.Token)
	assert.Equal(t, existing.ID.Hex(), data.User.ID)
	assert.Equal(t, "Ramesh", data.User.Name)
	users.AssertExpectations(t)
}

func TestLoginMarksUnverifiedUser(t *testing.T) {
	users := new(mockUserStore)
	svc, store := newTestAuthService(t, users)
	seedOTP(t, store, "9876543210", "123456")

	existing := &models.User{
		ID:    primitive.NewObjectID(),
		Phone: "9876543210",
		Role:  models.RoleLabourer,
	}
	users.On("FindByPhone", mock.Anything, "9876543210").Return(existing, nil)
	users.On("MarkVerified", mock.Anything, existing.ID).Return(nil)

	data, err := svc.Login(context.Background(), "9876543210", "123456")
	require.NoError(t, err)
	assert.True(t, data.User.IsVerified)
	users.AssertExpectations(t)
}

func TestLoginWrongCode(t *testing.T) {
	users := new(mockUserStore)
	svc, store := newTestAuthService(t, users)
	seedOTP(t, store, "9876543210", "123456")

	_, err := svc.Login(context.Background(), "9876543210", "654321")
	assert.ErrorIs(t, err, ErrOTPMismatch)
	users.AssertNotCalled(t, "FindByPhone", mock.Anything, mock.Anything)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	users := new(mockUserStore)
	svc, store := newTestAuthService(t, users)
	seedOTP(t, store, "9876543210", "123456")

	users.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Phone:    "9876543210",
		OTP:      "123456",
		Role:     models.RoleFarmer,
		Language: "en",
		Name:     "Ramesh",
	})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	users.AssertExpectations(t)
}

func TestRegisterFarmer(t *testing.T) {
	users := new(mockUserStore)
	svc, store := newTestAuthService(t, users)
	seedOTP(t, store, "9876543210", "123456")

	var created *models.User
	users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.User)
		created.ID = primitive.NewObjectID()
	}).Return(nil)

	data, err := svc.Register(context.Background(), models.RegisterRequest{
		Phone:    "+91 9876543210",
		OTP:      "123456",
		Role:     models.RoleFarmer,
		Language: "mr",
		Name:     "Ramesh",
		FarmDetails: &models.FarmDetails{
			FarmSize:     2.5,
			PrimaryCrops: []string{"cotton", "soybean"},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "9876543210", created.Phone)
	assert.True(t, created.IsVerified)
	require.NotNil(t, created.Profile.Farmer)
	assert.Nil(t, created.Profile.Labourer)
	assert.Equal(t, []string{"cotton", "soybean"}, created.Profile.Farmer.FarmDetails.PrimaryCrops)
	assert.Equal(t, "token-farmer", data.Token)
	assert.Equal(t, "mr", data.User.Language)
}

func TestRegisterLabourerDefaults(t *testing.T) {
	users := new(mockUserStore)
	svc, store := newTestAuthService(t, users)
	seedOTP(t, store, "9876543210", "123456")

	var created *models.User
	users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.User)
		created.ID = primitive.NewObjectID()
	}).Return(nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Phone:    "9876543210",
		OTP:      "123456",
		Role:     models.RoleLabourer,
		Language: "hi",
		Name:     "Suresh",
		Skills:   []string{"harvesting"},
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	require.NotNil(t, created.Profile.Labourer)
	assert.Nil(t, created.Profile.Farmer)
	assert.True(t, created.Profile.Labourer.Availability.IsAvailable)
	assert.Equal(t, defaultMaxTravelDistance, created.Profile.Labourer.Availability.MaxTravelDistance)
	assert.Equal(t, []string{"harvesting"}, created.Profile.Labourer.Availability.PreferredWorkTypes)
}

func TestRegisterConsumesOTP(t *testing.T) {
	users := new(mockUserStore)
	svc, store := newTestAuthService(t, users)
	seedOTP(t, store, "9876543210", "123456")

	users.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Phone:    "9876543210",
		OTP:      "123456",
		Role:     models.RoleFarmer,
		Language: "en",
		Name:     "Ramesh",
	})
	require.NoError(t, err)

	// The same code cannot be replayed for a second registration.
	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Phone:    "9876543210",
		OTP:      "123456",
		Role:     models.RoleFarmer,
		Language: "en",
		Name:     "Ramesh",
	})
	assert.ErrorIs(t, err, ErrOTPNotFound)
}
