package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"greenpulse"
	"greenpulse/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	ErrAccountNotFound = errors.New("account not found, sign up first")
	ErrWrongPassword   = errors.New("wrong password")
	ErrInvalidToken    = errors.New("invalid token")
	ErrAuthRequired    = errors.New("sign in required")
)

const defaultUserName = "User"

// AuthConfig holds token signing parameters, loaded from config.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// AuthService handles accounts, credentials, and the active session.
type AuthService struct {
	users    repository.Users
	sessions repository.Sessions
	cfg      AuthConfig
}

func NewAuthService(users repository.Users, sessions repository.Sessions, cfg AuthConfig) *AuthService {
	return &AuthService{users: users, sessions: sessions, cfg: cfg}
}

// SignUp registers a new account with an empty plant list and default
// biodata. Fails with greenpulse.ErrDuplicateEmail when the normalized email
// is taken.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultUserName
	}
	return s.users.Create(ctx, greenpulse.User{
		Name:         name,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Units:        greenpulse.UnitsMetric,
		Plants:       []greenpulse.Plant{},
	})
}

// Claims defines JWT claims; the subject is the normalized account email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SignIn validates credentials, stores the active session, and returns a
// bearer token for the API.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrAccountNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrWrongPassword
	}
	if err := s.sessions.Set(ctx, u.Email); err != nil {
		return "", err
	}
	return s.issueToken(repository.NormalizeEmail(u.Email))
}

// SignOut clears the active session.
func (s *AuthService) SignOut(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// ParseToken returns the normalized email a token was issued for.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

// Current resolves the active session to its user. Returns (nil, nil) when no
// session exists or the referenced account vanished.
func (s *AuthService) Current(ctx context.Context) (*greenpulse.User, error) {
	email, ok, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.users.FindByEmail(ctx, email)
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) issueToken(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}
