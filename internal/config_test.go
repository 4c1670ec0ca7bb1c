package internal

import (
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for port 0")
	}
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestValidateRejectsEmptyPaths(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty storage path")
	}

	cfg = NewDefaultConfig()
	cfg.Images.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty images dir")
	}
}

func TestAuthValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = AuthModeToken
	if err := cfg.Validate(); err == nil {
		t.Error("token mode without token should fail")
	}
	cfg.Auth.Token = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("token mode with token: %v", err)
	}
	if !cfg.Auth.AuthEnabled() {
		t.Error("AuthEnabled should be true in token mode")
	}

	cfg.Auth = AuthConfig{Mode: "bogus"}
	if err := cfg.Auth.Validate(); err == nil {
		t.Error("expected error for unknown auth mode")
	}

	// Empty mode normalises to disabled.
	cfg.Auth = AuthConfig{}
	if err := cfg.Auth.Validate(); err != nil {
		t.Errorf("empty mode: %v", err)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("empty mode should be disabled")
	}
}
