package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/i474232898/weather-dashboard/internal/users"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password. Keeping the two indistinguishable prevents account enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims is the payload carried by issued access tokens.
type Claims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// UserInfo is the user view embedded in the login response.
type UserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	AccessToken string   `json:"access_token"`
	User        UserInfo `json:"user"`
}

// Service validates credentials and signs bearer tokens.
type Service struct {
	users  *users.Service
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates a new Service. A zero ttl issues tokens without an
// expiry claim.
func NewService(userSvc *users.Service, secret string, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:  userSvc,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
	}
}

// Login validates the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.sign(u)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("user logged in", "id", u.ID, "email", u.Email)

	return LoginResult{
		AccessToken: token,
		User: UserInfo{
			ID:      u.ID,
			Email:   u.Email,
			Name:    u.Name,
			IsAdmin: u.IsAdmin,
		},
	}, nil
}

func (s *Service) sign(u users.User) (string, error) {
	claims := Claims{
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token string, returning its claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
