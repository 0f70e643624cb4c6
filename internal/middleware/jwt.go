package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MOSTAFA-AL-MANNANI/ihsas/internal/models"
	appErrors "github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/errors"
	"github.com/MOSTAFA-AL-MANNANI/ihsas/pkg/response"
)

// ContextAdminKey is the gin context key under which the authenticated
// admin's claims are stored.
const ContextAdminKey = "currentAdmin"

type tokenValidator interface {
	ValidateToken(ctx context.Context, rawToken string) (*models.JWTClaims, error)
}

// JWTAuth guards admin routes. It expects a Bearer token in the
// Authorization header and stores the validated claims in the context.
func JWTAuth(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "malformed authorization header"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAdminKey, claims)
		c.Next()
	}
}

// AdminFromContext retrieves the authenticated admin's claims.
func AdminFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextAdminKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
