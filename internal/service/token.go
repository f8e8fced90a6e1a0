package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clientbridge/crm/config"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

// Role is a user's authorization role. Policy decisions are made against
// the role, never against a raw flag read off the request.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// RoleFor maps a stored user to its role
func RoleFor(user *model.User) Role {
	if user.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// CanManageUsers is the admin policy gate
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// Token type discriminators. Access and refresh claims carry different type
// markers and are verified against different secrets, so presenting one kind
// of token where the other is expected always fails.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AccessClaims is the payload of a short-lived access token. It carries the
// identity snapshot handlers read; it never carries credentials.
type AccessClaims struct {
	UserID    uint   `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a long-lived refresh token. It identifies
// the user and nothing else; the identity snapshot is re-read from storage
// at refresh time.
type RefreshClaims struct {
	UserID    uint   `json:"uid"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the two token kinds
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.JWT.AccessSecret),
		refreshSecret: []byte(cfg.JWT.RefreshSecret),
		accessTTL:     cfg.JWT.AccessTTL,
		refreshTTL:    cfg.JWT.RefreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL returns the configured refresh token lifetime
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// IssueAccess mints an access token for a user
func (s *TokenService) IssueAccess(ctx context.Context, user *model.User) (string, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "IssueAccess")

	now := time.Now()
	claims := AccessClaims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      RoleFor(user),
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to sign access token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return signed, nil
}

// IssueRefresh mints a refresh token for a user
func (s *TokenService) IssueRefresh(ctx context.Context, user *model.User) (string, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "IssueRefresh")

	now := time.Now()
	claims := RefreshClaims{
		UserID:    user.ID,
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to sign refresh token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return signed, nil
}

// VerifyAccess parses and validates an access token. Refresh tokens fail
// here both on secret and on the type marker.
func (s *TokenService) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.accessSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.TokenType != tokenTypeAccess {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// VerifyRefresh parses and validates a refresh token
func (s *TokenService) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.refreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.TokenType != tokenTypeRefresh {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
