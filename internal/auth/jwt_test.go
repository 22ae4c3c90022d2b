package auth

import (
	"testing"
	"time"

	"github.com/pentyflix/pentyflix-api/internal/models"
	"github.com/pentyflix/pentyflix-api/pkg/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:   "0123456789abcdef0123456789abcdef",
		Issuer:   "pentyflix-api",
		Audience: "pentyflix-clients",
		TTL:      3 * time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		ID:       "user-1",
		Username: "alice",
		Role:     models.RoleUser,
	}
}

func TestNewTokenManagerRejectsShortSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = "short"
	if _, err := NewTokenManager(cfg); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager, err := NewTokenManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewTokenManager() error: %v", err)
	}

	token, expiresAt, err := manager.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if time.Until(expiresAt) > 3*time.Hour || time.Until(expiresAt) < 2*time.Hour {
		t.Errorf("unexpected expiry %v", expiresAt)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.Username != "alice" || claims.Role != models.RoleUser {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("token should carry a jti")
	}
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	manager, err := NewTokenManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewTokenManager() error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*config.JWTConfig)
	}{
		{"different secret", func(c *config.JWTConfig) { c.Secret = "ffffffffffffffffffffffffffffffff" }},
		{"different issuer", func(c *config.JWTConfig) { c.Issuer = "someone-else" }},
		{"different audience", func(c *config.JWTConfig) { c.Audience = "other-clients" }},
		{"expired", func(c *config.JWTConfig) { c.TTL = -time.Minute }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			foreignCfg := testJWTConfig()
			tt.mutate(foreignCfg)
			foreign, err := NewTokenManager(foreignCfg)
			if err != nil {
				t.Fatalf("NewTokenManager() error: %v", err)
			}

			token, _, err := foreign.Generate(testUser())
			if err != nil {
				t.Fatalf("Generate() error: %v", err)
			}
			if _, err := manager.Validate(token); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager, err := NewTokenManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewTokenManager() error: %v", err)
	}
	if _, err := manager.Validate("not.a.token"); err == nil {
		t.Error("expected validation to fail for garbage input")
	}
}
