package middleware

import (
	"net/http"
	"strings"

	"campsite-backend/models"
	"campsite-backend/utils"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenParser turns a bearer token into the caller identity.
type TokenParser interface {
	Parse(token string) (models.Principal, error)
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireAuth rejects requests without a valid token.
func RequireAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			utils.AbortJSONError(c, http.StatusUnauthorized, "Missing authorization token")
			return
		}
		p, err := tokens.Parse(raw)
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is sent and lets
// anonymous requests through. An invalid token is treated as anonymous.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if p, err := tokens.Parse(raw); err == nil {
				c.Set(principalKey, p)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			utils.AbortJSONError(c, http.StatusUnauthorized, "Missing authorization token")
			return
		}
		if !p.IsAdmin() {
			utils.AbortJSONError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
