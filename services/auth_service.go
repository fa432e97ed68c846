package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/kicker-tournament/middleware"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 12 * time.Hour

type OrganizerToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	Login(ctx context.Context, password string) (*OrganizerToken, error)
}

type authService struct {
	passwordHash []byte
	jwtSecret    []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAuthService issues organizer tokens. An empty secret or password hash
// disables login.
func NewAuthService(passwordHash, jwtSecret string) AuthService {
	return &authService{
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		ttl:          defaultTokenTTL,
		now:          time.Now,
	}
}

func (s *authService) Login(ctx context.Context, password string) (*OrganizerToken, error) {
	if len(s.passwordHash) == 0 || len(s.jwtSecret) == 0 {
		return nil, ErrAuthDisabled
	}

	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.MapClaims{
		middleware.ClaimRole: middleware.RoleOrganizer,
		"exp":                expires.Unix(),
		"iat":                now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &OrganizerToken{Token: token, ExpiresAt: time.Unix(expires.Unix(), 0).UTC()}, nil
}

const organizerBcryptCost = 12

// HashOrganizerPassword produces the value for ORGANIZER_PASSWORD_HASH.
func HashOrganizerPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", ErrValidationFailed)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), organizerBcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
