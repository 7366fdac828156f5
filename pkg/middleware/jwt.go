package middleware

import (
	"errors"
	"net/http"
	"strings"

	"pathfinder/guide-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	userIDKey  = "userID"
	authCookie = "auth_token"
)

// NewJWTMiddleware rejects every request that doesn't carry a valid token.
// On success the user id is stored under userID.
func NewJWTMiddleware(t *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := RequestID(c)

		userID, err := t.Parse(tokenFromRequest(c))
		if err != nil {
			msg := "Authorization token invalid"

			switch {
			case errors.Is(err, security.ErrTokenMissing):
				msg = "Missing authorization token"
			case errors.Is(err, security.ErrTokenExpired):
				msg = "Authorization token expired. Please log in again"
			default:
				zap.L().Debug("Rejected token", zap.Error(err), zap.String("requestID", requestID))
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     msg,
				"requestID": requestID,
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// NewOptionalJWTMiddleware never rejects a request. A valid token sets
// userID, a missing or broken one leaves the request anonymous.
func NewOptionalJWTMiddleware(t *security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		userID, err := t.Parse(tokenStr)
		if err != nil {
			zap.L().Debug("Ignoring invalid optional token", zap.Error(err), zap.String("requestID", RequestID(c)))
			c.Next()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id, or nil for anonymous requests
func UserID(c *gin.Context) *uint {
	v, ok := c.Get(userIDKey)
	if !ok {
		return nil
	}

	id, ok := v.(uint)
	if !ok {
		return nil
	}

	return &id
}

// tokenFromRequest reads a bearer token from the Authorization header and
// falls back to the auth_token cookie set on login.
func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, found := strings.Cut(h, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}

		return strings.TrimSpace(token)
	}

	if cookie, err := c.Cookie(authCookie); err == nil {
		return cookie
	}

	return ""
}

// SetAuthCookie stores the token for browser clients
func SetAuthCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookie, token, maxAge, "/", "", secure, true)
}
