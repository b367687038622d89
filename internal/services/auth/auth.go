// Package auth contains registration, login and profile management.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/HarshG200/neuron-edtech/internal/lib/jwt"
	"github.com/HarshG200/neuron-edtech/internal/lib/password"
	"github.com/HarshG200/neuron-edtech/internal/models"
	"github.com/HarshG200/neuron-edtech/internal/storage/repository"
)

// Service-level sentinel errors surfaced to handlers.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// UserRepository is the storage contract for user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, email, name, phone, city string) error
	UpdateUserPassword(ctx context.Context, email, passwordHash string) error
}

// AuthService handles registration, login and JWT validation.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService wires the repository and the token maker.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register creates a user with a hashed password and the default "user" role,
// then issues a token so the portal can sign the user straight in.
func (s *AuthService) Register(ctx context.Context, email, rawPassword, name, phone, city string) (string, models.UserProfile, error) {
	if existing, err := s.users.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return "", models.UserProfile{}, ErrEmailTaken
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", models.UserProfile{}, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         name,
		Phone:        phone,
		City:         city,
		Role:         "user",
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", models.UserProfile{}, err
	}

	token, err := s.jwtMaker.GenerateToken(email, user.Role)
	if err != nil {
		return "", models.UserProfile{}, err
	}
	return token, user.Profile(), nil
}

// Login verifies the password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, models.UserProfile, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", models.UserProfile{}, ErrInvalidCredentials
		}
		return "", models.UserProfile{}, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", models.UserProfile{}, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role)
	if err != nil {
		return "", models.UserProfile{}, err
	}
	return token, user.Profile(), nil
}

// Me returns the profile of an authenticated user.
func (s *AuthService) Me(ctx context.Context, email string) (models.UserProfile, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return models.UserProfile{}, err
	}
	return user.Profile(), nil
}

// UpdateProfile changes the mutable profile fields and returns the fresh
// profile.
func (s *AuthService) UpdateProfile(ctx context.Context, email, name, phone, city string) (models.UserProfile, error) {
	if name == "" && phone == "" && city == "" {
		return models.UserProfile{}, fmt.Errorf("no data to update")
	}
	if err := s.users.UpdateUserProfile(ctx, email, name, phone, city); err != nil {
		return models.UserProfile{}, err
	}
	return s.Me(ctx, email)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		return ErrWrongPassword
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateUserPassword(ctx, email, hashed)
}
