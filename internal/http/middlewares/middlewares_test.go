package middlewares

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/actorctx"
	"github.com/seoule/salon/internal/auth"
	"github.com/seoule/salon/internal/domain/user"
)

type fakeGate struct {
	RequireAuthFn func(ctx context.Context, token string) (*user.AuthUser, error)
	calls         int
}

func (f *fakeGate) RequireAuth(ctx context.Context, token string) (*user.AuthUser, error) {
	f.calls++
	return f.RequireAuthFn(ctx, token)
}

func gateFor(users map[string]*user.AuthUser) *fakeGate {
	return &fakeGate{RequireAuthFn: func(_ context.Context, token string) (*user.AuthUser, error) {
		if token == "broken" {
			return nil, errors.New("db down")
		}
		u, ok := users[token]
		if !ok {
			return nil, auth.ErrUnauthenticated
		}
		return u, nil
	}}
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", append(handlers, func(c *gin.Context) {
		u, _ := actorctx.UserFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})...)
	return r
}

func doGet(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	gate := gateFor(map[string]*user.AuthUser{
		"tok-staff": {ID: "u-staff", Role: user.RoleStaff, IsActive: true},
	})
	r := newEngine(NewAuthMiddleware(gate).RequireAuth())

	tests := []struct {
		name   string
		token  string
		status int
		code   string
	}{
		{"no cookie", "", http.StatusUnauthorized, `"unauthorized"`},
		{"unknown token", "nope", http.StatusUnauthorized, `"unauthorized"`},
		{"storage failure", "broken", http.StatusInternalServerError, `"internal_error"`},
		{"valid", "tok-staff", http.StatusOK, `"u-staff"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doGet(r, tc.token)

			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d body=%s", w.Code, tc.status, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tc.code) {
				t.Fatalf("body %s does not contain %s", w.Body.String(), tc.code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gate := gateFor(map[string]*user.AuthUser{
		"tok-admin":  {ID: "u-admin", Role: user.RoleAdmin, IsActive: true},
		"tok-staff":  {ID: "u-staff", Role: user.RoleStaff, IsActive: true},
		"tok-member": {ID: "u-member", Role: user.RoleMember, IsActive: true},
	})
	m := NewAuthMiddleware(gate)

	adminOnly := newEngine(m.RequireRole(user.RoleAdmin))
	anyMember := newEngine(m.RequireRole(user.RoleMember))

	cases := []struct {
		engine http.Handler
		token  string
		status int
	}{
		{adminOnly, "tok-admin", http.StatusOK},
		{adminOnly, "tok-staff", http.StatusForbidden},
		{adminOnly, "", http.StatusUnauthorized},
		{anyMember, "tok-admin", http.StatusOK},
		{anyMember, "tok-staff", http.StatusOK},
		{anyMember, "tok-member", http.StatusOK},
	}

	for _, tc := range cases {
		if w := doGet(tc.engine, tc.token); w.Code != tc.status {
			t.Fatalf("token %q: status = %d, want %d", tc.token, w.Code, tc.status)
		}
	}
}

func TestRequireRole_ReusesAuthenticatedUser(t *testing.T) {
	gate := gateFor(map[string]*user.AuthUser{
		"tok-staff": {ID: "u-staff", Role: user.RoleStaff, IsActive: true},
	})
	m := NewAuthMiddleware(gate)

	r := newEngine(m.RequireAuth(), m.RequireRole(user.RoleStaff))

	if w := doGet(r, "tok-staff"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gate.calls != 1 {
		t.Fatalf("gate consulted %d times, want 1", gate.calls)
	}
}

func TestRequireJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequireJSON())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		name   string
		body   string
		ctype  string
		status int
	}{
		{"json", `{}`, "application/json; charset=utf-8", http.StatusNoContent},
		{"form", `a=b`, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"empty body", ``, "", http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body == "" {
				req = httptest.NewRequest(http.MethodPost, "/x", nil)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(tc.body))
			}
			if tc.ctype != "" {
				req.Header.Set("Content-Type", tc.ctype)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}
		})
	}
}

func TestMaxBodyBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"far":"too long"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://salon.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://salon.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("credentials must be allowed for the session cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unknown origin must not be echoed")
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	const supplied = "0f8fad5b-d9cb-469f-a165-70867728950e"

	for in, keep := range map[string]bool{supplied: true, "<script>": false, "": false} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if in != "" {
			req.Header.Set("X-Request-Id", in)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		got := w.Header().Get("X-Request-Id")
		if got != w.Body.String() {
			t.Fatalf("header %q and context %q disagree", got, w.Body.String())
		}
		if keep && got != supplied {
			t.Fatalf("valid id should be kept, got %q", got)
		}
		if !keep && (got == in || len(got) != 36) {
			t.Fatalf("id %q should have been replaced, got %q", in, got)
		}
	}
}
