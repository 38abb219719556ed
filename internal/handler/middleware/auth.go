package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	jwtpkg "galapass/guesthub/pkg/jwt"
	"galapass/guesthub/pkg/response"
)

const ContextKeyUserClaims = "user_claims"

// JWTAuth validates the bearer access token. Websocket clients cannot set an
// Authorization header from the browser, so a "token" query parameter is
// accepted as a fallback.
func JWTAuth(jwtManager *jwtpkg.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(c, "invalid authorization format")
				c.Abort()
				return
			}
			tokenStr = parts[1]
		} else {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			response.Unauthorized(c, "missing authorization")
			c.Abort()
			return
		}

		claims, err := jwtManager.Validate(tokenStr)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != jwtpkg.TokenTypeAccess {
			response.Unauthorized(c, "invalid token type")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserClaims, claims)
		c.Next()
	}
}
