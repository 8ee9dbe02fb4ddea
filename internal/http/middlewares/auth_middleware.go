package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/actorctx"
	"github.com/seoule/salon/internal/auth"
	"github.com/seoule/salon/internal/domain/user"
)

// Keep this small interface so tests can fake it easily.
type Authenticator interface {
	RequireAuth(ctx context.Context, token string) (*user.AuthUser, error)
}

type AuthMiddleware struct {
	gate Authenticator
}

func NewAuthMiddleware(gate Authenticator) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// RequireAuth resolves the session cookie to a user or aborts with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := AuthUserFromContext(c); ok {
			c.Next()
			return
		}

		token, _ := c.Cookie(SessionCookieName)

		u, err := m.gate.RequireAuth(c.Request.Context(), token)
		if err != nil {
			abortAuth(c, err)
			return
		}

		setAuthUser(c, u)
		c.Next()
	}
}

func setAuthUser(c *gin.Context, u *user.AuthUser) {
	c.Set(CtxAuthUser, u)
	c.Request = c.Request.WithContext(actorctx.WithUser(c.Request.Context(), u))
}

func abortAuth(c *gin.Context, err error) {
	reqID, _ := c.Get(CtxRequestID)

	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"code":      "unauthorized",
				"message":   "Authentication required",
				"requestId": reqID,
			},
		})
	case errors.Is(err, auth.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": gin.H{
				"code":      "forbidden",
				"message":   "Insufficient role",
				"requestId": reqID,
			},
		})
	default:
		slog.Default().ErrorContext(c.Request.Context(), "auth check failed", "err", err, "request_id", reqID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":      "internal_error",
				"message":   "Could not verify session",
				"requestId": reqID,
			},
		})
	}
}

// AuthUserFromContext returns the user stored by RequireAuth.
func AuthUserFromContext(c *gin.Context) (*user.AuthUser, bool) {
	v, ok := c.Get(CtxAuthUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.AuthUser)
	return u, ok && u != nil
}
