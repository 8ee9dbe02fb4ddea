package actorctx

import (
	"context"

	"github.com/seoule/salon/internal/domain/user"
)

type ctxKey struct{}

// WithUser attaches the authenticated user to ctx.
func WithUser(ctx context.Context, u *user.AuthUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (*user.AuthUser, bool) {
	u, ok := ctx.Value(ctxKey{}).(*user.AuthUser)

	return u, ok && u != nil
}

func UserIDFrom(ctx context.Context) (string, bool) {
	u, ok := UserFrom(ctx)
	if !ok || u.ID == "" {
		return "", false
	}

	return u.ID, true
}
