package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stemsi/attendance-portal/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, f *fixture) *AuthService {
	t.Helper()
	tokens, err := NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return NewAuthService(tokens, f.users, f.sessions, bcrypt.MinCost, testLog)
}

func registerReq(email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		FullName:           "Ada Lovelace",
		Email:              email,
		Password:           "secret123",
		Department:         "CS",
		RegistrationNumber: "REG-1",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	auth := newAuth(t, f)
	ctx := context.Background()

	u, err := auth.Register(ctx, registerReq(" Ada@Example.edu "))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != model.RoleUser || u.Email != "ada@example.edu" || u.PasswordHash == "secret123" {
		t.Fatalf("user = %+v", u)
	}

	if _, err := auth.Register(ctx, registerReq("ADA@example.edu")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register: got %v", err)
	}

	res, err := auth.Login(ctx, "ada@example.edu", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" || res.User.ID != u.ID || res.User.LastLogin == nil {
		t.Fatalf("login response = %+v", res)
	}

	claims, err := auth.Tokens().Validate("Bearer " + res.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != model.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture()
	auth := newAuth(t, f)
	ctx := context.Background()

	u, _ := auth.Register(ctx, registerReq("ada@example.edu"))

	if _, err := auth.Login(ctx, "nobody@example.edu", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
	if _, err := auth.Login(ctx, "ada@example.edu", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}

	stored, _ := f.users.GetByID(ctx, u.ID)
	stored.IsActive = false
	_ = f.users.Update(ctx, stored)
	if _, err := auth.Login(ctx, "ada@example.edu", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive account: got %v", err)
	}
}

func TestCreateAccountAdmin(t *testing.T) {
	f := newFixture()
	auth := newAuth(t, f)

	u, err := auth.CreateAccount(context.Background(), registerReq("root@example.edu"), model.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if u.Role != model.RoleAdmin {
		t.Fatalf("role = %s", u.Role)
	}

	if _, err := auth.CreateAccount(context.Background(), registerReq("x@example.edu"), model.Role("root")); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown role: got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture()
	auth := newAuth(t, f)
	ctx := context.Background()

	_, _ = auth.Register(ctx, registerReq("ada@example.edu"))
	res, _ := auth.Login(ctx, "ada@example.edu", "secret123")
	claims, _ := auth.Tokens().ParseToken(res.Token)

	if revoked, _ := auth.IsRevoked(ctx, claims.ID); revoked {
		t.Fatal("fresh token reported revoked")
	}
	if err := auth.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if revoked, _ := auth.IsRevoked(ctx, claims.ID); !revoked {
		t.Fatal("token not revoked after logout")
	}
	if err := auth.Logout(ctx, nil); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("nil claims: got %v", err)
	}
}
