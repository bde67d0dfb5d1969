package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/middleware/jwt"
)

// extractToken pulls the bearer token from the Authorization header, with
// a query-parameter fallback for links that cannot set headers.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Query("token")
}

// AuthMiddleware requires a valid session token and injects the
// authenticated profile into the request context. Every screen behind the
// login wall goes through this; a protected route is never reachable
// without a session.
func AuthMiddleware(tokens *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth token"})
			c.Abort()
			return
		}

		claims, err := tokens.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("profile_id", claims.ProfileID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)

		c.Next()
	}
}

// OptionalAuthMiddleware injects the profile when a valid token is present
// but lets anonymous requests through. Invite previews use this: the link
// must render a group card before the viewer has logged in.
func OptionalAuthMiddleware(tokens *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := tokens.ParseToken(token); err == nil {
				c.Set("profile_id", claims.ProfileID)
				c.Set("username", claims.Username)
				c.Set("email", claims.Email)
			}
		}
		c.Next()
	}
}
