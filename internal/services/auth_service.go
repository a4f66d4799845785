package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"accounts-service/internal/models"
	"accounts-service/internal/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
)

// AccessClaims is the JWT payload. Permissions are deliberately not encoded:
// the auth middleware resolves the current stored set on every request so a
// permission change takes effect without waiting for token expiry.
type AccessClaims struct {
	TenantID string             `json:"tenantId"`
	Role     models.AccountRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Account   *models.Account `json:"account"`
}

// AuthService authenticates operator credentials and issues access tokens.
type AuthService struct {
	repo      repository.AccountRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *logrus.Entry
}

func NewAuthService(repo repository.AccountRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logrus.WithField("component", "auth_service"),
	}
}

// Login verifies the credentials and returns a signed HS256 access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.repo.FindByEmail(email)
	if errors.Is(err, repository.ErrNotFound) {
		// Burn a bcrypt comparison anyway so response timing does not
		// distinguish unknown emails from wrong passwords.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$000000000000000000000uGZLKQZyU4M0Qa1Nq5yLDhrkpa7p0jS2"), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.logger.WithField("account_id", account.ID).Warn("Failed login attempt")
		return nil, ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, ErrAccountDeactivated
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := AccessClaims{
		TenantID: account.TenantID,
		Role:     account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// ParseToken validates a token string and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
