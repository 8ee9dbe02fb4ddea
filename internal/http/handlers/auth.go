package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/actorctx"
	"github.com/seoule/salon/internal/auth"
	"github.com/seoule/salon/internal/http/middlewares"
)

type LoginLogouter interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	gate   LoginLogouter
	cookie CookieConfig
}

func NewAuthHandler(gate LoginLogouter, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{gate: gate, cookie: cookie}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt at cost 12 plus two round trips
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	res, err := h.gate.Login(cctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		slog.Default().ErrorContext(ctx.Request.Context(), "login failed", "err", err, "request_id", requestIDFrom(ctx))
		RespondInternal(ctx, "Could not sign in")
		return
	}

	h.setSessionCookie(ctx, res.Token)

	ctx.JSON(http.StatusOK, gin.H{
		"user":      res.User,
		"expiresAt": res.ExpiresAt,
	})
}

// Logout always clears the cookie, even when there was no session to end.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	token, _ := ctx.Cookie(middlewares.SessionCookieName)

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	err := h.gate.Logout(cctx, token)

	h.clearSessionCookie(ctx)

	if err != nil {
		slog.Default().ErrorContext(ctx.Request.Context(), "logout failed", "err", err, "request_id", requestIDFrom(ctx))
		RespondInternal(ctx, "Could not sign out")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the user placed on the request by the auth middleware.
func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := actorctx.UserFrom(ctx.Request.Context())
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookieName,
		token,
		int(h.cookie.TTL.Seconds()),
		"/",
		"",
		h.cookie.Secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookieName,
		"",
		-1,
		"/",
		"",
		h.cookie.Secure,
		true,
	)
}
