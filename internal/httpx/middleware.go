package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fashionsmith/fashionsmith-api/internal/auth"
)

const (
	ctxClaims = "claims"
	ctxRID    = "rid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxRID, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("rid", c.GetString(ctxRID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("dur", time.Since(start)).
			Msg("http")
	}
}

// Auth resolves the bearer token to an authenticated principal. Requests
// without a valid token never reach the protected handlers, so downstream
// code can treat the claims in the context as trusted.
func Auth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		SetClaims(c, claims)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// SetClaims attaches the principal to the request. Auth uses it; handler
// tests use it to impersonate a caller without minting tokens.
func SetClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ctxClaims, claims)
}

// ClaimsFrom returns the authenticated principal, or ok=false for an
// anonymous request.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// UserID is a shortcut for the common "who is calling" lookup.
func UserID(c *gin.Context) string {
	if claims, ok := ClaimsFrom(c); ok {
		return claims.Subject
	}
	return ""
}
