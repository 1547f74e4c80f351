package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"notedeck/api/internal/config"
	"notedeck/api/internal/ids"
	"notedeck/api/internal/models"
	"notedeck/api/internal/repository"
	"notedeck/api/internal/security"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike, so callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type AuthService struct {
	users    UserStore
	throttle *LoginThrottle
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, throttle *LoginThrottle, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		throttle: throttle,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

// Register creates a user with a hashed password. The plaintext never touches
// storage or the log stream.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// Login verifies credentials and returns the matching user. Unknown email and
// wrong password both come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if s.throttle != nil && !s.throttle.Allow(ctx, input.ClientIP+":"+email) {
		return models.User{}, ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		// A hash that cannot be decoded is corrupt stored data, not a bad
		// credential; let it reach the 500 path and the central log.
		return models.User{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}
