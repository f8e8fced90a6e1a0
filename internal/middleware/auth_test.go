package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/model"
	"github.com/clientbridge/crm/internal/service"
)

func newTestTokens(t *testing.T) *service.TokenService {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret-for-tests"
	cfg.JWT.RefreshSecret = "refresh-secret-for-tests"
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour
	return service.NewTokenService(cfg)
}

func issueToken(t *testing.T, tokens *service.TokenService, admin bool) string {
	t.Helper()
	user := &model.User{Email: "mw@example.com", FirstName: "M", LastName: "W", IsAdmin: admin}
	user.ID = 7
	token, err := tokens.IssueAccess(context.Background(), user)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}
	return token
}

func newTestEngine(tokens *service.TokenService, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	group := engine.Group("/", RequireAuth(tokens))
	if adminOnly {
		group.Use(RequireAdmin())
	}
	group.GET("/whoami", func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "userId": claims.UserID, "role": claims.Role})
	})
	return engine
}

func TestRequireAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	tokens := newTestTokens(t)
	engine := newTestEngine(tokens, false)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bare token", "some-token"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	tokens := newTestTokens(t)
	engine := newTestEngine(tokens, false)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, false))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	tokens := newTestTokens(t)
	engine := newTestEngine(tokens, false)

	user := &model.User{Email: "mw@example.com"}
	user.ID = 7
	refresh, err := tokens.IssueRefresh(context.Background(), user)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := newTestTokens(t)
	engine := newTestEngine(tokens, true)

	t.Run("regular user forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, false))
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, true))
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
	})
}
