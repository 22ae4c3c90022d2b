package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pentyflix/pentyflix-api/internal/models"
	"github.com/pentyflix/pentyflix-api/pkg/logging"
)

var (
	// ErrUserExists is returned when registering a taken username
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned for a bad username or password
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserStore is the credential store the service runs against
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// Service registers users and issues tokens on login
type Service struct {
	users  UserStore
	tokens *TokenManager
	logger *zap.Logger
}

// NewService creates a new auth service
func NewService(users UserStore, tokens *TokenManager) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logging.GetLogger().With(zap.String("component", "auth-service")),
	}
}

// RegisterInput is the register request payload
type RegisterInput struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Profile is the user view returned alongside a token
type Profile struct {
	Username  string `json:"userName"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginResult carries a signed token, its expiry, and the user's profile
type LoginResult struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	User       Profile   `json:"user"`
}

// Register creates a new user with a bcrypt-hashed password. Fails with
// ErrUserExists when the username is taken.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return fmt.Errorf("failed to look up user %q: %w", in.Username, err)
	}
	if existing != nil {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Username:      in.Username,
		Email:         in.Email,
		PasswordHash:  string(hash),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Role:          models.RoleUser,
		SecurityStamp: uuid.NewString(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %q: %w", in.Username, err)
	}

	s.logger.Info("user registered", zap.String("username", in.Username))
	return nil
}

// Login verifies credentials and issues a bearer token. Fails with
// ErrInvalidCredentials on an unknown user or a password mismatch.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %q: %w", username, err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token for %q: %w", username, err)
	}

	s.logger.Info("user logged in", zap.String("username", username))
	return &LoginResult{
		Token:      token,
		Expiration: expiresAt,
		User: Profile{
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}, nil
}
