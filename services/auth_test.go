package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

type authFixture struct {
	users   *MockUserStore
	doctors *MockDoctorStore
	refresh *MockRefreshTokenStore
	otps    *MockOTPStore
	sms     *MockSMSClient
	svc     *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:   new(MockUserStore),
		doctors: new(MockDoctorStore),
		refresh: new(MockRefreshTokenStore),
		otps:    new(MockOTPStore),
		sms:     new(MockSMSClient),
	}
	cfg := testConfig()
	f.svc = NewAuthService(f.users, f.doctors, f.refresh, f.otps, f.sms,
		NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL), cfg, logger.Discard())
	f.svc.now = clock
	return f
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_CreatesDoctorProfile(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetByEmail", "doc@example.com").Return(nil, errNotFound)
	f.users.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "doc@example.com" && u.Role == models.RoleDoctor &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(&models.User{ID: "u-1", Email: "doc@example.com", Role: models.RoleDoctor, PasswordHash: "x", IsActive: true}, nil)
	f.doctors.On("CreateProfile", "u-1").Return(&models.DoctorProfile{ID: "u-1"}, nil)
	f.refresh.On("Create", "u-1", mock.AnythingOfType("string"), fixedNow.Add(720*time.Hour)).Return(&models.RefreshToken{ID: "rt-1"}, nil)

	resp, err := f.svc.Register(context.Background(), models.RegisterRequest{
		Email:    " Doc@Example.com ",
		Password: "password123",
		FullName: "Dr Who",
		Role:     models.RoleDoctor,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Empty(t, resp.User.PasswordHash)
	f.doctors.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetByEmail", "ana@example.com").Return(&models.User{ID: "u-1"}, nil)

	_, err := f.svc.Register(context.Background(), models.RegisterRequest{Email: "ana@example.com", Password: "password123", FullName: "Ana"})
	assert.ErrorIs(t, err, ErrConflict)
	f.users.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLogin(t *testing.T) {
	active := &models.User{ID: "u-1", Email: "ana@example.com", Role: models.RolePatient, IsActive: true, PasswordHash: hashed(t, "secret-pass")}
	inactive := &models.User{ID: "u-2", Email: "old@example.com", IsActive: false, PasswordHash: hashed(t, "secret-pass")}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "ana@example.com", "secret-pass", nil},
		{"wrong password", "ana@example.com", "nope", ErrUnauthorized},
		{"unknown user", "who@example.com", "secret-pass", ErrUnauthorized},
		{"inactive user", "old@example.com", "secret-pass", ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			f.users.On("GetByEmail", "ana@example.com").Return(active, nil)
			f.users.On("GetByEmail", "old@example.com").Return(inactive, nil)
			f.users.On("GetByEmail", "who@example.com").Return(nil, errNotFound)
			f.refresh.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(&models.RefreshToken{ID: "rt"}, nil)

			resp, err := f.svc.Login(context.Background(), models.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "unauthorized: invalid credentials", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u-1", resp.User.ID)
		})
	}
}

func TestRefresh_Rotates(t *testing.T) {
	f := newAuthFixture()
	raw := "opaque-token"
	f.refresh.On("GetByHash", hashToken(raw)).Return(&models.RefreshToken{
		ID: "rt-1", UserID: "u-1", ExpiresAt: fixedNow.Add(time.Hour),
	}, nil)
	f.users.On("GetByID", "u-1").Return(&models.User{ID: "u-1", IsActive: true}, nil)
	f.refresh.On("Create", "u-1", mock.AnythingOfType("string"), mock.Anything).Return(&models.RefreshToken{ID: "rt-2"}, nil)
	f.refresh.On("Revoke", "rt-1", "rt-2").Return(nil)

	resp, err := f.svc.Refresh(context.Background(), raw)
	require.NoError(t, err)
	assert.NotEqual(t, raw, resp.RefreshToken)
	f.refresh.AssertExpectations(t)
}

func TestRefresh_ReuseRevokesEverything(t *testing.T) {
	f := newAuthFixture()
	f.refresh.On("GetByHash", mock.Anything).Return(&models.RefreshToken{
		ID: "rt-1", UserID: "u-1", Revoked: true, ExpiresAt: fixedNow.Add(time.Hour),
	}, nil)
	f.refresh.On("RevokeAll", "u-1").Return(nil)

	_, err := f.svc.Refresh(context.Background(), "stolen")
	assert.ErrorIs(t, err, ErrUnauthorized)
	f.refresh.AssertCalled(t, "RevokeAll", "u-1")
}

func TestRefresh_ConcurrentRotationLoses(t *testing.T) {
	f := newAuthFixture()
	f.refresh.On("GetByHash", mock.Anything).Return(&models.RefreshToken{
		ID: "rt-1", UserID: "u-1", ExpiresAt: fixedNow.Add(time.Hour),
	}, nil)
	f.users.On("GetByID", "u-1").Return(&models.User{ID: "u-1", IsActive: true}, nil)
	f.refresh.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(&models.RefreshToken{ID: "rt-3"}, nil)
	f.refresh.On("Revoke", "rt-1", "rt-3").Return(errNotFound)
	f.refresh.On("RevokeAll", "u-1").Return(nil)

	_, err := f.svc.Refresh(context.Background(), "raced")
	assert.ErrorIs(t, err, ErrUnauthorized)
	f.refresh.AssertCalled(t, "RevokeAll", "u-1")
}

func TestRefresh_Expired(t *testing.T) {
	f := newAuthFixture()
	f.refresh.On("GetByHash", mock.Anything).Return(&models.RefreshToken{
		ID: "rt-1", UserID: "u-1", ExpiresAt: fixedNow.Add(-time.Second),
	}, nil)

	_, err := f.svc.Refresh(context.Background(), "old")
	assert.ErrorIs(t, err, ErrUnauthorized)
	f.refresh.AssertNotCalled(t, "RevokeAll", mock.Anything)
}

func TestRefresh_ExpiredAndRotated(t *testing.T) {
	f := newAuthFixture()
	f.refresh.On("GetByHash", mock.Anything).Return(&models.RefreshToken{
		ID: "rt-1", UserID: "u-1", Revoked: true, ExpiresAt: fixedNow.Add(-time.Second),
	}, nil)

	_, err := f.svc.Refresh(context.Background(), "old")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")
	f.refresh.AssertNotCalled(t, "RevokeAll", mock.Anything)
}

func TestRequestOTP(t *testing.T) {
	f := newAuthFixture()
	phone := "+33600000000"
	f.users.On("GetActiveByPhone", phone).Return(&models.User{ID: "u-1"}, nil)
	f.otps.On("InvalidatePending", phone).Return(nil)
	f.sms.On("SendOTP", phone).Return("VE123", nil)
	f.otps.On("Create", "VE123", phone, fixedNow.Add(5*time.Minute)).Return(&models.OTP{ID: "VE123"}, nil)

	resp, err := f.svc.RequestOTP(context.Background(), phone)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(5*time.Minute), resp.ExpiresAt)
	f.otps.AssertExpectations(t)
}

func TestRequestOTP_UnknownPhone(t *testing.T) {
	f := newAuthFixture()
	f.users.On("GetActiveByPhone", "+1").Return(nil, errNotFound)

	_, err := f.svc.RequestOTP(context.Background(), "+1")
	assert.ErrorIs(t, err, ErrNotFound)
	f.sms.AssertNotCalled(t, "SendOTP", mock.Anything)
}

func TestVerifyOTP(t *testing.T) {
	phone := "+33600000000"
	req := models.VerifyOTPRequest{Phone: phone, OTPCode: "123456"}

	t.Run("success issues tokens", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("Latest", phone).Return(&models.OTP{ID: "VE1", Phone: phone, ExpiresAt: fixedNow.Add(time.Minute)}, nil)
		f.sms.On("ValidateOTP", "VE1", "123456").Return(nil)
		f.otps.On("MarkUsed", "VE1").Return(nil)
		f.users.On("GetActiveByPhone", phone).Return(&models.User{ID: "u-1", IsActive: true}, nil)
		f.refresh.On("Create", "u-1", mock.Anything, mock.Anything).Return(&models.RefreshToken{ID: "rt"}, nil)

		resp, err := f.svc.VerifyOTP(context.Background(), req)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		f.otps.AssertCalled(t, "MarkUsed", "VE1")
	})

	t.Run("expired is consumed", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("Latest", phone).Return(&models.OTP{ID: "VE1", ExpiresAt: fixedNow.Add(-time.Second)}, nil)
		f.otps.On("MarkUsed", "VE1").Return(nil)

		_, err := f.svc.VerifyOTP(context.Background(), req)
		assert.ErrorIs(t, err, ErrUnauthorized)
		f.sms.AssertNotCalled(t, "ValidateOTP", mock.Anything, mock.Anything)
	})

	t.Run("too many attempts", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("Latest", phone).Return(&models.OTP{ID: "VE1", Attempts: 3, ExpiresAt: fixedNow.Add(time.Minute)}, nil)
		f.otps.On("MarkUsed", "VE1").Return(nil)

		_, err := f.svc.VerifyOTP(context.Background(), req)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Contains(t, err.Error(), "too many attempts")
	})

	t.Run("wrong code counts an attempt", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("Latest", phone).Return(&models.OTP{ID: "VE1", Attempts: 1, ExpiresAt: fixedNow.Add(time.Minute)}, nil)
		f.sms.On("ValidateOTP", "VE1", "123456").Return(ErrInvalidOTP)
		f.otps.On("SetAttempts", "VE1", 1, 2).Return(nil)

		_, err := f.svc.VerifyOTP(context.Background(), req)
		assert.ErrorIs(t, err, ErrUnauthorized)
		f.otps.AssertNotCalled(t, "MarkUsed", mock.Anything)
	})

	t.Run("last wrong code consumes the otp", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("Latest", phone).Return(&models.OTP{ID: "VE1", Attempts: 2, ExpiresAt: fixedNow.Add(time.Minute)}, nil)
		f.sms.On("ValidateOTP", "VE1", "123456").Return(ErrInvalidOTP)
		f.otps.On("SetAttempts", "VE1", 2, 3).Return(nil)
		f.otps.On("MarkUsed", "VE1").Return(nil)

		_, err := f.svc.VerifyOTP(context.Background(), req)
		assert.ErrorIs(t, err, ErrUnauthorized)
		f.otps.AssertCalled(t, "MarkUsed", "VE1")
	})

	t.Run("provider outage", func(t *testing.T) {
		f := newAuthFixture()
		f.otps.On("Latest", phone).Return(&models.OTP{ID: "VE1", ExpiresAt: fixedNow.Add(time.Minute)}, nil)
		f.sms.On("ValidateOTP", "VE1", "123456").Return(errors.New("connection reset"))

		_, err := f.svc.VerifyOTP(context.Background(), req)
		assert.ErrorIs(t, err, ErrUnavailable)
		f.otps.AssertNotCalled(t, "SetAttempts", mock.Anything, mock.Anything, mock.Anything)
	})
}
