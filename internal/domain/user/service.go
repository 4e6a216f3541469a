// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles account registration, authentication, and profiles
type Service struct {
	db          *gorm.DB
	jwtManager  *auth.JWTManager
	passwordMgr *auth.PasswordManager
	log         *logrus.Logger
}

// NewService creates a new user service
func NewService(db *gorm.DB, jwtManager *auth.JWTManager, passwordMgr *auth.PasswordManager, log *logrus.Logger) *Service {
	return &Service{
		db:          db,
		jwtManager:  jwtManager,
		passwordMgr: passwordMgr,
		log:         log,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"max=20"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AuthResponse represents an authenticated session
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a new account and returns a token pair
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := s.passwordMgr.ValidatePassword(req.Password); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	var count int64
	if err := s.db.Model(&User{}).Where("email = ? OR username = ?", email, username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, apperr.Conflict("email or username already in use")
	}

	hashed, err := s.passwordMgr.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User registered")

	return s.issueTokens(&u)
}

// Login authenticates by email and password. Failures do not reveal whether
// the account exists.
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !u.IsActive {
		return nil, apperr.Unauthorized("account is deactivated")
	}
	if err := s.passwordMgr.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	now := time.Now()
	if err := s.db.Model(&u).UpdateColumn("last_login_at", now).Error; err != nil {
		s.log.WithError(err).Warn("failed to record login time")
	}
	u.LastLoginAt = &now

	return s.issueTokens(&u)
}

// RefreshToken exchanges a valid refresh token for a new token pair. Role
// flags are re-read from the database so a promotion or ban takes effect on
// the next refresh.
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("invalid refresh token")
	}

	u, err := s.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apperr.Unauthorized("account is deactivated")
	}

	return s.issueTokens(u)
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(id uint) (*User, error) {
	var u User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

// UpdateProfile applies partial profile changes. Identity and role fields
// are not touchable through this path.
func (s *Service) UpdateProfile(userID uint, req *UpdateProfileRequest) (*User, error) {
	u, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if len(updates) == 0 {
		return u, nil
	}

	if err := s.db.Model(u).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetByID(userID)
}

// ChangePassword verifies the current password before setting a new one
func (s *Service) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	u, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	if err := s.passwordMgr.VerifyPassword(req.CurrentPassword, u.Password); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}
	if err := s.passwordMgr.ValidatePassword(req.NewPassword); err != nil {
		return apperr.Validation("%s", err.Error())
	}

	hashed, err := s.passwordMgr.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.Model(u).UpdateColumn("password", hashed).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.log.WithField("user_id", userID).Info("Password changed")
	return nil
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.IsVendor, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &AuthResponse{
		User:         u,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
