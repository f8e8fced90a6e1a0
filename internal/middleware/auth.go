package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clientbridge/crm/internal/constants"
	apperrors "github.com/clientbridge/crm/internal/errors"
	"github.com/clientbridge/crm/internal/service"
	ctxutil "github.com/clientbridge/crm/pkg/context"
	"github.com/clientbridge/crm/pkg/logger"
)

// RequireAuth verifies the Bearer access token and stores the verified
// claims on the gin context. Authentication is claims-only: no storage read
// happens on this path, so a deleted user's token keeps working until it
// expires.
func RequireAuth(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, apperrors.ErrUnauthenticated)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortWithError(c, apperrors.ErrUnauthenticated)
			return
		}

		claims, err := tokens.VerifyAccess(parts[1])
		if err != nil {
			logger.WarnWithContext(c.Request.Context(), "Access token rejected").
				Path(c.Request.URL.Path).
				Err(err).
				Log()
			abortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(constants.GinKeyUserID, claims.UserID)
		c.Set(constants.GinKeyEmail, claims.Email)
		c.Set(constants.GinKeyFirstName, claims.FirstName)
		c.Set(constants.GinKeyLastName, claims.LastName)
		c.Set(constants.GinKeyIsAdmin, claims.Role == service.RoleAdmin)
		c.Set(constants.GinKeyClaims, claims)

		// Propagate the user to the request context for downstream logging.
		ctx := ctxutil.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin gates a route on the admin role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortWithError(c, apperrors.ErrUnauthenticated)
			return
		}

		if !claims.Role.CanManageUsers() {
			logger.WarnWithContext(c.Request.Context(), "Admin route denied").
				Uint("user_id", claims.UserID).
				Path(c.Request.URL.Path).
				Log()
			abortWithError(c, apperrors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// GetClaims returns the verified access claims set by RequireAuth
func GetClaims(c *gin.Context) (*service.AccessClaims, bool) {
	value, exists := c.Get(constants.GinKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*service.AccessClaims)
	return claims, ok
}

// GetUserID returns the authenticated user's ID set by RequireAuth
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.GinKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func abortWithError(c *gin.Context, err *apperrors.DomainError) {
	c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err), gin.H{
		"success": false,
		"error":   err.Message,
		"code":    err.Code,
	})
}
