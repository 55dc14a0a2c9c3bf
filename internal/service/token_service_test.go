package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stemsi/attendance-portal/internal/model"
)

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		if _, err := NewTokenService(secret, time.Hour); err == nil {
			t.Errorf("secret %q accepted", secret)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ts, _ := NewTokenService("secret", time.Hour)

	token, exp, err := ts.Issue("u1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry %v is in the past", exp)
	}

	claims, err := ts.Validate("Bearer " + token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != model.RoleAdmin || claims.ID == "" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := ts.Validate("bearer " + token); err != nil {
		t.Fatalf("lowercase scheme: %v", err)
	}
}

func TestTokenValidateFailures(t *testing.T) {
	ts, _ := NewTokenService("secret", time.Hour)
	other, _ := NewTokenService("other-secret", time.Hour)

	good, _, _ := ts.Issue("u1", model.RoleUser)
	forged, _, _ := other.Issue("u1", model.RoleAdmin)

	expiring, _ := NewTokenService("secret", time.Minute)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := expiring.Issue("u1", model.RoleUser)

	tests := []struct {
		name       string
		credential string
		want       error
	}{
		{"empty header", "", ErrUnauthenticated},
		{"missing scheme", good, ErrUnauthenticated},
		{"wrong scheme", "Basic " + good, ErrUnauthenticated},
		{"scheme only", "Bearer ", ErrUnauthenticated},
		{"garbage", "Bearer not-a-jwt", ErrInvalidToken},
		{"bad signature", "Bearer " + forged, ErrInvalidToken},
		{"expired", "Bearer " + expired, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ts.Validate(tt.credential); !errors.Is(err, tt.want) {
				t.Fatalf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	ts, _ := NewTokenService("secret", time.Hour)
	token, _, _ := ts.Issue("u1", model.Role("root"))

	if _, err := ts.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
