package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clientbridge/crm/config"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/model"
)

func newTestTokenService(accessTTL, refreshTTL time.Duration) *TokenService {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret-for-tests"
	cfg.JWT.RefreshSecret = "refresh-secret-for-tests"
	cfg.JWT.AccessTTL = accessTTL
	cfg.JWT.RefreshTTL = refreshTTL
	return NewTokenService(cfg)
}

func testUser() *model.User {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	user := &model.User{
		Email:        "jane@example.com",
		PasswordHash: &hash,
		FirstName:    "Jane",
		LastName:     "Doe",
		IsAdmin:      false,
	}
	user.ID = 42
	return user
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)
	user := testUser()

	token, err := svc.IssueAccess(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess returned error: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("Email = %q, want jane@example.com", claims.Email)
	}
	if claims.FirstName != "Jane" || claims.LastName != "Doe" {
		t.Errorf("name = %q %q, want Jane Doe", claims.FirstName, claims.LastName)
	}
	if claims.Role != RoleUser {
		t.Errorf("Role = %q, want %q", claims.Role, RoleUser)
	}
}

func TestAccessTokenNeverCarriesPasswordHash(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)
	user := testUser()

	token, err := svc.IssueAccess(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	// The payload is base64 of JSON; the hash prefix would survive encoding
	// of any field that contained it.
	if strings.Contains(token, "2a$10") {
		t.Error("token payload appears to contain the password hash")
	}
}

func TestAdminRoleInClaims(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)
	user := testUser()
	user.IsAdmin = true

	token, err := svc.IssueAccess(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	claims, err := svc.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess returned error: %v", err)
	}

	if claims.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleAdmin)
	}
	if !claims.Role.CanManageUsers() {
		t.Error("admin role should pass the management policy")
	}
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	svc := newTestTokenService(-1*time.Minute, 7*24*time.Hour)
	user := testUser()

	token, err := svc.IssueAccess(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	if _, err := svc.VerifyAccess(token); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("VerifyAccess on expired token = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)
	user := testUser()

	refresh, err := svc.IssueRefresh(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}

	if _, err := svc.VerifyAccess(refresh); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("VerifyAccess on refresh token = %v, want ErrInvalidToken", err)
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)
	user := testUser()

	access, err := svc.IssueAccess(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	if _, err := svc.VerifyRefresh(access); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("VerifyRefresh on access token = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)
	user := testUser()

	refresh, err := svc.IssueRefresh(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}

	claims, err := svc.VerifyRefresh(refresh)
	if err != nil {
		t.Fatalf("VerifyRefresh returned error: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.VerifyAccess(token); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("VerifyAccess(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}
