package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kidwell/api-backend/internal/crypto"
)

// Context keys set by the auth middleware
const (
	ParentIDKey     = "parent_id"
	ParentClaimsKey = "parent_claims"
)

// AnonymousParentID owns records created while authentication is disabled
const AnonymousParentID = "anonymous"

// ParentAuthMiddleware validates parent bearer tokens.
// With an empty secret every request is attributed to AnonymousParentID.
func ParentAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSecret == "" {
			c.Set(ParentIDKey, AnonymousParentID)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorizedResponse(c, "Authentication required. Send a bearer token in the Authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorizedResponse(c, "Invalid authorization header format. Expected: Bearer <token>")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			unauthorizedResponse(c, "Token is required in Authorization header")
			return
		}

		claims, err := crypto.VerifyParentJWT(tokenString, jwtSecret)
		if err != nil {
			unauthorizedResponse(c, "Invalid or expired token")
			return
		}

		c.Set(ParentIDKey, claims.ParentID)
		c.Set(ParentClaimsKey, claims)

		c.Next()
	}
}

// ParentID returns the authenticated parent for the request
func ParentID(c *gin.Context) string {
	if id := c.GetString(ParentIDKey); id != "" {
		return id
	}
	return AnonymousParentID
}

// ParentEmail returns the email carried by the parent's token, or "" when
// the token has none or authentication is disabled
func ParentEmail(c *gin.Context) string {
	claims, ok := c.Get(ParentClaimsKey)
	if !ok {
		return ""
	}
	if pc, ok := claims.(*crypto.ParentClaims); ok {
		return pc.Email
	}
	return ""
}

// unauthorizedResponse is a helper to return 401 responses
func unauthorizedResponse(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "Unauthorized",
		"message": message,
	})
}
