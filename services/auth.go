package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aladdinbruv/docproche-sub000/config"
	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)

type AuthService struct {
	users   UserStore
	doctors DoctorStore
	refresh RefreshTokenStore
	otps    OTPStore
	sms     SMSClient
	tokens  *TokenManager
	cfg     *config.Config
	log     *logger.Logger
	now     func() time.Time
}

func NewAuthService(
	users UserStore,
	doctors DoctorStore,
	refresh RefreshTokenStore,
	otps OTPStore,
	sms SMSClient,
	tokens *TokenManager,
	cfg *config.Config,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		doctors: doctors,
		refresh: refresh,
		otps:    otps,
		sms:     sms,
		tokens:  tokens,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RolePatient
	}

	user, err := s.users.Create(&models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		Phone:        req.Phone,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if role == models.RoleDoctor {
		if _, err := s.doctors.CreateProfile(user.ID); err != nil {
			return nil, fmt.Errorf("create doctor profile: %w", err)
		}
	}

	s.log.Audit(user.ID, "register", "user", true, map[string]interface{}{"role": role})
	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if isNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Audit(user.ID, "login", "user", false, nil)
		return nil, errInvalidCredentials
	}

	s.log.Audit(user.ID, "login", "user", true, nil)
	return s.issueTokens(user)
}

// Refresh rotates a refresh token. Presenting an unexpired token that was
// already rotated revokes every token of the user.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*models.LoginResponse, error) {
	stored, err := s.refresh.GetByHash(hashToken(raw))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	// an expired token is rejected before reuse is considered
	if s.now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", ErrUnauthorized)
	}

	if stored.Revoked {
		return nil, s.reuseDetected(stored.UserID)
	}

	user, err := s.users.GetByID(stored.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", ErrUnauthorized)
	}

	access, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	token, hash, err := newRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	next, err := s.refresh.Create(user.ID, hash, s.now().Add(s.cfg.Auth.RefreshTTL))
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	// only one concurrent rotation can flip revoked=false
	if err := s.refresh.Revoke(stored.ID, next.ID); err != nil {
		if isNotFound(err) {
			return nil, s.reuseDetected(user.ID)
		}
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:  access,
		RefreshToken: token,
		ExpiresIn:    int64(s.tokens.TTL().Seconds()),
		User:         publicUser(user),
	}, nil
}

func (s *AuthService) reuseDetected(userID string) error {
	if err := s.refresh.RevokeAll(userID); err != nil {
		s.log.WithUserID(userID).WithError(err).Error("failed to revoke refresh tokens after reuse")
	}
	s.log.Audit(userID, "refresh_token_reuse", "refresh_token", false, nil)
	return fmt.Errorf("%w: refresh token reuse detected", ErrUnauthorized)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.refresh.RevokeAll(userID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	s.log.Audit(userID, "logout", "user", true, nil)
	return nil
}

func (s *AuthService) RequestOTP(ctx context.Context, phone string) (*models.OTPResponse, error) {
	if _, err := s.users.GetActiveByPhone(phone); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("phone number %w", ErrNotFound)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.otps.InvalidatePending(phone); err != nil {
		s.log.WithComponent("auth").WithError(err).Warn("failed to invalidate previous otps")
	}

	sid, err := s.sms.SendOTP(phone)
	if err != nil {
		s.log.WithComponent("auth").WithError(err).Error("failed to send otp")
		return nil, fmt.Errorf("%w: failed to send otp", ErrUnavailable)
	}

	expiresAt := s.now().Add(s.cfg.Auth.OTPTTL)
	if _, err := s.otps.Create(sid, phone, expiresAt); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	return &models.OTPResponse{
		Message:   "OTP sent successfully",
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.LoginResponse, error) {
	otp, err := s.otps.Latest(req.Phone)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: no pending otp for this phone", ErrUnauthorized)
		}
		return nil, fmt.Errorf("lookup otp: %w", err)
	}

	if s.now().After(otp.ExpiresAt) {
		s.markUsed(otp.ID)
		return nil, fmt.Errorf("%w: otp expired", ErrUnauthorized)
	}

	if otp.Attempts >= s.cfg.Auth.OTPMaxAttempts {
		s.markUsed(otp.ID)
		return nil, fmt.Errorf("%w: too many attempts", ErrUnauthorized)
	}

	if err := s.sms.ValidateOTP(otp.ID, req.OTPCode); err != nil {
		if !errors.Is(err, ErrInvalidOTP) {
			s.log.WithComponent("auth").WithError(err).Error("otp check failed")
			return nil, fmt.Errorf("%w: failed to check otp", ErrUnavailable)
		}

		attempts := otp.Attempts + 1
		if err := s.otps.SetAttempts(otp.ID, otp.Attempts, attempts); err != nil && !isNotFound(err) {
			s.log.WithComponent("auth").WithError(err).Warn("failed to record otp attempt")
		}
		if attempts >= s.cfg.Auth.OTPMaxAttempts {
			s.markUsed(otp.ID)
		}
		return nil, fmt.Errorf("%w: invalid otp code", ErrUnauthorized)
	}

	s.markUsed(otp.ID)

	user, err := s.users.GetActiveByPhone(req.Phone)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: account disabled", ErrUnauthorized)
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	s.log.Audit(user.ID, "login_otp", "user", true, nil)
	return s.issueTokens(user)
}

func (s *AuthService) markUsed(id string) {
	if err := s.otps.MarkUsed(id); err != nil {
		s.log.WithComponent("auth").WithError(err).Warn("failed to mark otp used")
	}
}

func (s *AuthService) issueTokens(user *models.User) (*models.LoginResponse, error) {
	access, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	token, hash, err := newRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if _, err := s.refresh.Create(user.ID, hash, s.now().Add(s.cfg.Auth.RefreshTTL)); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:  access,
		RefreshToken: token,
		ExpiresIn:    int64(s.tokens.TTL().Seconds()),
		User:         publicUser(user),
	}, nil
}

func publicUser(u *models.User) *models.User {
	p := u.Public()
	return &p
}
