package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/auth"
	"github.com/seoule/salon/internal/domain/user"
)

// RequireRole authenticates when needed, then enforces the minimum role.
func (m *AuthMiddleware) RequireRole(min user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := AuthUserFromContext(c)

		if !ok {
			token, _ := c.Cookie(SessionCookieName)

			var err error
			u, err = m.gate.RequireAuth(c.Request.Context(), token)
			if err != nil {
				abortAuth(c, err)
				return
			}
			setAuthUser(c, u)
		}

		if err := auth.Authorize(u, min); err != nil {
			abortAuth(c, err)
			return
		}

		c.Next()
	}
}
