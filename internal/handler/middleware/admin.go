package middleware

import (
	"github.com/gin-gonic/gin"

	jwtpkg "galapass/guesthub/pkg/jwt"
	"galapass/guesthub/pkg/response"
)

// AdminOnly checks that the authenticated subject is the admin account.
// Must be used after JWTAuth middleware.
func AdminOnly(adminSubject string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsVal, exists := c.Get(ContextKeyUserClaims)
		if !exists {
			response.Unauthorized(c, "missing authentication")
			c.Abort()
			return
		}
		claims, ok := claimsVal.(*jwtpkg.Claims)
		if !ok {
			response.Unauthorized(c, "invalid claims")
			c.Abort()
			return
		}

		if claims.Subject != adminSubject {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
