package middleware

import (
	"log"
	"net/http"
	"strings"

	"anoa.com/unimanage/internal/auth"
	"anoa.com/unimanage/pkg/response"
	"github.com/gin-gonic/gin"
)

const ContextClaims = "claims"

type AuthMiddleware struct {
	issuer  *auth.TokenIssuer
	revoker auth.SessionRevoker
}

func NewAuthMiddleware(issuer *auth.TokenIssuer, revoker auth.SessionRevoker) *AuthMiddleware {
	return &AuthMiddleware{
		issuer:  issuer,
		revoker: revoker,
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	// Browsers cannot set headers on websocket upgrades.
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}

// RequireAuth verifies the bearer token and stores its claims on the context.
// The role in the token is authoritative for the rest of the request.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.issuer.Verify(extractToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(c.Request.Context(), claims)
			if err != nil {
				log.Printf("[Auth] revocation check failed: %v", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session check unavailable"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session revoked, please log in again"})
				return
			}
		}

		c.Set(response.ContextUserID, claims.Subject)
		c.Set(response.ContextRole, claims.Role)
		c.Set(response.ContextName, claims.Name)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := response.GetRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient role"})
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole("admin")
}
