package actorctx

import (
	"context"
	"testing"

	"github.com/seoule/salon/internal/domain/user"
)

func TestUserRoundTrip(t *testing.T) {
	if _, ok := UserFrom(context.Background()); ok {
		t.Fatalf("empty context must not carry a user")
	}

	u := &user.AuthUser{ID: "u-1", Role: user.RoleStaff}
	ctx := WithUser(context.Background(), u)

	got, ok := UserFrom(ctx)
	if !ok || got != u {
		t.Fatalf("got %v, %v", got, ok)
	}

	id, ok := UserIDFrom(ctx)
	if !ok || id != "u-1" {
		t.Fatalf("user id = %q, %v", id, ok)
	}

	if _, ok := UserFrom(WithUser(context.Background(), nil)); ok {
		t.Fatalf("nil user must not count as present")
	}
}
