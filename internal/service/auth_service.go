package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"coqueta/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor used for HashPassword
	BcryptCost = 10

	RoleAdmin = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService authenticates the back office operator
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	adminEmail   string
	passwordHash []byte
	jwtSecret    []byte
	expiry       time.Duration
}

// NewAuthService creates an AuthService for the single configured admin
func NewAuthService(admin config.AdminConfig, jwtCfg config.JWTConfig) AuthService {
	expiry := time.Duration(jwtCfg.AccessExpiry) * time.Minute
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &authService{
		adminEmail:   strings.ToLower(strings.TrimSpace(admin.Email)),
		passwordHash: []byte(admin.PasswordHash),
		jwtSecret:    []byte(jwtCfg.Secret),
		expiry:       expiry,
	}
}

// HashPassword produces the bcrypt hash expected in ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Login checks the credentials and returns a signed access token
func (s *authService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1

	// the hash is always compared so a wrong email costs the same time
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil || !emailOK {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.expiry)
	claims := &Claims{
		UserID: s.adminEmail,
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
