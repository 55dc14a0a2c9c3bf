package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// guarded builds a router where claims are injected directly, bypassing JWT.
func guarded(claims *service.Claims, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextKeyClaims, claims)
		}
	})
	r.DELETE("/users/:user_id", h)
	return r
}

func TestGuardCallsNextOnlyWhenAllowed(t *testing.T) {
	tests := []struct {
		name     string
		claims   *service.Claims
		target   string
		allowed  []service.Access
		status   int
		wantNext bool
	}{
		{"admin", &service.Claims{UserID: "a1", Role: model.RoleAdmin}, "u1", []service.Access{service.AccessAdmin}, http.StatusOK, true},
		{"self", &service.Claims{UserID: "u1", Role: model.RoleUser}, "u1", []service.Access{service.AccessAdmin, service.AccessSelf}, http.StatusOK, true},
		{"other user", &service.Claims{UserID: "u2", Role: model.RoleUser}, "u1", []service.Access{service.AccessAdmin, service.AccessSelf}, http.StatusForbidden, false},
		{"no claims", nil, "u1", []service.Access{service.AccessAdmin}, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := func(c *gin.Context) {
				called = true
				c.Status(http.StatusOK)
			}

			rec := httptest.NewRecorder()
			guarded(tt.claims, Guard(next, tt.allowed...)).
				ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/"+tt.target, nil))

			if rec.Code != tt.status || called != tt.wantNext {
				t.Fatalf("status=%d called=%v, want %d %v", rec.Code, called, tt.status, tt.wantNext)
			}
		})
	}
}

func TestForbidSelfBlocksOwnAccount(t *testing.T) {
	admin := &service.Claims{UserID: "a1", Role: model.RoleAdmin}
	called := false
	h := Guard(ForbidSelf(func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	}), service.AccessAdmin)

	rec := httptest.NewRecorder()
	guarded(admin, h).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/a1", nil))
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("self delete: status=%d called=%v", rec.Code, called)
	}

	rec = httptest.NewRecorder()
	guarded(admin, h).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/u1", nil))
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("other delete: status=%d called=%v", rec.Code, called)
	}
}
