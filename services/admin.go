package services

import (
	"fmt"

	"github.com/aladdinbruv/docproche-sub000/logger"
	"github.com/aladdinbruv/docproche-sub000/models"
)

// AdminService manages accounts on behalf of administrators.
type AdminService struct {
	users   UserStore
	refresh RefreshTokenStore
	log     *logger.Logger
}

func NewAdminService(users UserStore, refresh RefreshTokenStore, log *logger.Logger) *AdminService {
	return &AdminService{users: users, refresh: refresh, log: log}
}

func (s *AdminService) ListUsers(filter models.UserFilter) ([]models.User, error) {
	switch filter.Role {
	case "", models.RolePatient, models.RoleDoctor, models.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, filter.Role)
	}

	users, err := s.users.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// SetActive enables or disables an account. Disabling revokes every refresh
// token, so the user is signed out once the access token expires.
func (s *AdminService) SetActive(actor Actor, userID string, active bool) (*models.User, error) {
	if userID == actor.UserID && !active {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", ErrInvalid)
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user.IsActive == active {
		return publicUser(user), nil
	}

	updated, err := s.users.Update(userID, map[string]interface{}{"is_active": active})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if !active {
		if err := s.refresh.RevokeAll(userID); err != nil {
			return nil, fmt.Errorf("revoke refresh tokens: %w", err)
		}
	}

	action := "activate"
	if !active {
		action = "deactivate"
	}
	s.log.Audit(actor.UserID, action, "user", true, map[string]interface{}{"target_user_id": userID})
	return publicUser(updated), nil
}
