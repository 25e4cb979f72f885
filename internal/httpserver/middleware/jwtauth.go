package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/database/models"
	"tradedesk-system/internal/services/users"
)

const identityKey = "identity"

// JWTAuth verifies the bearer token and resolves it to an active user record.
// Tokens for deactivated accounts are rejected even before expiry.
func JWTAuth(tokens *auth.TokenManager, userSvc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		claims, err := tokens.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		user, err := userSvc.Resolve(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"message": apperr.MessageOf(err)})
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// Identity returns the resolved user for the current request.
func Identity(c *gin.Context) *models.User {
	if v, ok := c.Get(identityKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
