package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/membership-api/internal/httperr"
	"github.com/BruksfildServices01/membership-api/internal/security"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

type TokenParser interface {
	Parse(token string) (security.Identity, error)
}

func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "missing_authorization_header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", "invalid_authorization_header"
	}
	return parts[1], ""
}

func setIdentity(c *gin.Context, id security.Identity) {
	c.Set(ContextUserID, id.UserID)
	c.Set(ContextUserRole, id.Role)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearerToken(c)
		if problem != "" {
			httperr.Unauthorized(c, problem, "Authentication required.")
			c.Abort()
			return
		}

		identity, err := tokens.Parse(token)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token.")
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, problem := bearerToken(c); problem == "" {
			if identity, err := tokens.Parse(token); err == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if current, _ := c.Get(ContextUserRole); current != role {
			httperr.Forbidden(c, "forbidden", "You are not allowed to perform this action.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns uuid.Nil for anonymous callers.
func CurrentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
