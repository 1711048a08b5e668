package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sokohub/backend/internal/domain/identity"
)

// RequireRole creates middleware that only lets the given roles through.
// It must run after JWTAuthMiddleware; requests without claims get a 401.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if !claims.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "Insufficient role for this operation",
				},
			})
			return
		}

		c.Next()
	}
}

// RequireAuthenticated lets any signed-in account through, regardless of
// role. It must run after JWTAuthMiddleware.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin only lets admin accounts through
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}

// RequireVendor lets vendor and admin accounts through. Admins can manage
// any vendor's listings.
func RequireVendor() gin.HandlerFunc {
	return RequireRole(identity.RoleVendor, identity.RoleAdmin)
}
