package models

import "time"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	DateOfBirth  *string   `json:"date_of_birth,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	Address      *string   `json:"address,omitempty"`
	BloodType    *string   `json:"blood_type,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public strips credentials before a user leaves the API.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

type Profile struct {
	User
	Doctor *DoctorProfile `json:"doctor,omitempty"`
}

type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName string  `json:"full_name" binding:"required"`
	Role     Role    `json:"role" binding:"omitempty,oneof=patient doctor"`
	Phone    *string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}

type UpdateProfileRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender,omitempty" binding:"omitempty,oneof=male female other"`
	Address     *string `json:"address,omitempty"`
	BloodType   *string `json:"blood_type,omitempty"`
}

type UserFilter struct {
	Role   Role
	Active *bool
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type RefreshToken struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TokenHash  string    `json:"token_hash"`
	ExpiresAt  time.Time `json:"expires_at"`
	Revoked    bool      `json:"revoked"`
	ReplacedBy *string   `json:"replaced_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
