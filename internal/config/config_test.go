package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got cfg=%v err=%v", cfg, err)
	}
}

func TestLoadRejectsBlankJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "   ")

	if _, err := Load(); !errors.Is(err, ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ATTENDANCE_TIMEZONE", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AttendanceLocation.String() != "UTC" {
		t.Errorf("location = %s, want UTC", cfg.AttendanceLocation)
	}
	if cfg.StorageBackend != StoragePostgres {
		t.Errorf("backend = %s, want %s", cfg.StorageBackend, StoragePostgres)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", cfg.RequestTimeout)
	}
}

func TestLoadInvalidTimezone(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ATTENDANCE_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ATTENDANCE_TIMEZONE", "")
	t.Setenv("STORAGE_BACKEND", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestParseOrigins(t *testing.T) {
	got := parseOrigins(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %#v", got)
	}
	if parseOrigins("") != nil {
		t.Fatal("empty input should allow all origins")
	}
}
