package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/config"
	"github.com/clientbridge/crm/internal/constants"
	"github.com/clientbridge/crm/internal/dto"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/middleware"
	"github.com/clientbridge/crm/internal/service"
	"github.com/clientbridge/crm/pkg/logger"
)

// AuthHandler exposes registration, login, session refresh and the social
// login flows.
type AuthHandler struct {
	sessions *service.SessionService
	social   *service.SocialService
	cfg      *config.Config
}

func NewAuthHandler(sessions *service.SessionService, social *service.SocialService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{sessions: sessions, social: social, cfg: cfg}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	pair, err := h.sessions.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"accessToken": pair.AccessToken,
		"user":        service.UserToResponse(pair.User),
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	pair, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": pair.AccessToken,
		"user":        service.UserToResponse(pair.User),
	})
}

// Refresh handles POST /api/auth/refresh-token. The refresh token arrives in the
// HTTP-only cookie, never in the body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(constants.RefreshTokenCookie)
	if err != nil || token == "" {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	pair, err := h.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"accessToken": pair.AccessToken,
		"user":        service.UserToResponse(pair.User),
	})
}

// Logout handles POST /api/auth/logout. Logout is client-side: clearing the
// cookie ends the session, and the access token simply ages out.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	user, err := h.sessions.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    service.UserToResponse(user),
	})
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.sessions.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    service.UserToResponse(user),
	})
}

// SocialBegin handles GET /api/auth/:provider. It redirects the browser to
// the provider's consent page.
func (h *AuthHandler) SocialBegin(c *gin.Context) {
	provider := c.Param("provider")
	if !h.social.HasProvider(provider) {
		respondError(c, apperrors.ErrNotFound)
		return
	}

	authURL, err := h.social.BeginLogin(c.Request.Context(), provider)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// SocialCallback handles GET /api/auth/:provider/callback. On success the
// browser is sent back to the frontend with the access token in the query
// string and the refresh token in the cookie. Errors redirect to the
// frontend login page rather than rendering JSON at the provider's
// redirect target.
func (h *AuthHandler) SocialCallback(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")
	code := c.Query("code")

	if state == "" || code == "" {
		h.redirectWithError(c, "social login was cancelled or invalid")
		return
	}

	profile, err := h.social.CompleteLogin(c.Request.Context(), provider, state, code)
	if err != nil {
		logger.WarnWithContext(c.Request.Context(), "Social callback failed").
			String("provider", provider).
			Err(err).
			Log()
		h.redirectWithError(c, "social login failed")
		return
	}

	pair, err := h.sessions.SocialLogin(c.Request.Context(), *profile)
	if err != nil {
		h.redirectWithError(c, "social login failed")
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	callback := h.cfg.App.FrontendURL + constants.AuthCallbackPath +
		"?accessToken=" + url.QueryEscape(pair.AccessToken)
	c.Redirect(http.StatusTemporaryRedirect, callback)
}

func (h *AuthHandler) redirectWithError(c *gin.Context, message string) {
	target := h.cfg.App.FrontendURL + "/login?error=" + url.QueryEscape(message)
	c.Redirect(http.StatusTemporaryRedirect, target)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		constants.RefreshTokenCookie,
		token,
		int(h.cfg.JWT.RefreshTTL.Seconds()),
		"/",
		"",
		h.cfg.IsProduction(), // Secure only over HTTPS
		true,                 // HttpOnly always
	)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.RefreshTokenCookie, "", -1, "/", "", h.cfg.IsProduction(), true)
}
