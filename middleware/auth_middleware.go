package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"visitordesk/internal/auth"
)

const contextUserKey = "authUser"

// AuthRequired verifies the bearer access token. A missing or malformed
// header is 401; an expired token is 401 with an explicit re-login signal;
// any other invalid token is 403.
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided. Authorization denied.",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Token expired. Login again.",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Invalid token.",
			})
			return
		}

		c.Set(contextUserKey, claims)
		c.Next()
	}
}

// AdminOnly gates a route group on the admin role. It must run after
// AuthRequired.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "No token provided. Authorization denied.",
			})
			return
		}
		if claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Admin access only.",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated claims set by AuthRequired, or nil.
func CurrentUser(c *gin.Context) *auth.Claims {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
