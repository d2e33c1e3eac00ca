package middleware

import (
	"attendance/response"
	"attendance/services"

	"github.com/gin-gonic/gin"
)

const userInfoKey = "userInfo"

// Authenticator verifies a bearer token
type Authenticator interface {
	Authenticate(token string) (services.UserInfo, error)
}

// AuthMiddleware verifies the bearer token and, when roles are given, the caller's role
func AuthMiddleware(auth Authenticator, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		info, err := auth.Authenticate(authHeader)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasRole(info.Role, roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Set(userInfoKey, info)
		c.Next()
	}
}

// CurrentUser returns the caller set by AuthMiddleware
func CurrentUser(c *gin.Context) (services.UserInfo, bool) {
	v, ok := c.Get(userInfoKey)
	if !ok {
		return services.UserInfo{}, false
	}
	info, ok := v.(services.UserInfo)
	return info, ok
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
