package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/pkg/auth"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUsernameTaken      = errors.New("auth: username already taken")
	ErrEmailTaken         = errors.New("auth: email already registered")
)

// SignupInput carries a registration request, validated upstream.
type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// AuthService owns registration and login.
type AuthService struct {
	db    *gorm.DB
	users *repositories.UserRepository
}

func NewAuthService(db *gorm.DB, users *repositories.UserRepository) *AuthService {
	return &AuthService{db: db, users: users}
}

// Signup registers a new account with a bcrypt password hash and an empty
// profile shell.
func (s *AuthService) Signup(in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.FindByUsername(in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("auth: username check: %w", err)
	}
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("auth: email check: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Profile: models.UserProfile{
			FullName: in.FullName,
			Phone:    in.Phone,
			Address:  in.Address,
		},
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

// Login verifies username (or email) and password.
func (s *AuthService) Login(identity, password string) (*models.User, error) {
	identity = strings.TrimSpace(identity)

	user, err := s.users.FindByUsername(identity)
	if errors.Is(err, repositories.ErrUserNotFound) {
		user, err = s.users.FindByEmail(strings.ToLower(identity))
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		// Burn a bcrypt comparison anyway so lookup misses and password
		// misses take the same time.
		auth.CheckPassword("$2a$10$000000000000000000000uGyUVCNsbfZEdygu7E4HWN2oXvrZ7dG6", password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth: lookup: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Token issues the JWT pair for API clients.
func (s *AuthService) Token(user *models.User) (access, refresh string, err error) {
	access, err = auth.GenerateToken(user.ID, user.Staff)
	if err != nil {
		return "", "", fmt.Errorf("auth: sign access token: %w", err)
	}
	refresh, err = auth.GenerateRefreshToken(user.ID, user.Staff)
	if err != nil {
		return "", "", fmt.Errorf("auth: sign refresh token: %w", err)
	}
	return access, refresh, nil
}
