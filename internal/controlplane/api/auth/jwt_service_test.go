package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-key-must-be-32-chars!"

func TestNewJWTService_ValidConfig(t *testing.T) {
	service, err := NewJWTService(JWTConfig{Secret: testSecret})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if service.TokenDuration() != time.Hour {
		t.Errorf("Expected default duration 1h, got %v", service.TokenDuration())
	}
}

func TestNewJWTService_ShortSecret(t *testing.T) {
	for _, secret := range []string{"", "short"} {
		if _, err := NewJWTService(JWTConfig{Secret: secret}); !errors.Is(err, ErrInvalidSecretLength) {
			t.Errorf("secret %q: expected ErrInvalidSecretLength, got %v", secret, err)
		}
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	service, _ := NewJWTService(JWTConfig{Secret: testSecret, TokenDuration: 15 * time.Minute})

	token, err := service.GenerateToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if token.AccessToken == "" {
		t.Fatal("Expected non-empty access token")
	}
	if token.TokenType != "Bearer" {
		t.Errorf("Expected token type 'Bearer', got %q", token.TokenType)
	}
	if token.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("Expected expires_in 900, got %d", token.ExpiresIn)
	}

	claims, err := service.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("Expected valid token, got: %v", err)
	}
	if claims.Subject != "ops" {
		t.Errorf("Expected subject 'ops', got %q", claims.Subject)
	}
	if !claims.IsAdmin() {
		t.Error("Expected admin claims")
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer, _ := NewJWTService(JWTConfig{Secret: testSecret})
	other, _ := NewJWTService(JWTConfig{Secret: "another-secret-key-that-is-32-chars"})

	token, _ := issuer.GenerateToken("ops", RoleViewer)
	if _, err := other.ValidateToken(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	service, _ := NewJWTService(JWTConfig{Secret: testSecret, TokenDuration: -time.Minute})

	token, err := service.GenerateToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := service.ValidateToken(token.AccessToken); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	service, _ := NewJWTService(JWTConfig{Secret: testSecret})
	if _, err := service.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Errorf("ParseRole(admin) = %q, %v", r, err)
	}
	if r, err := ParseRole("viewer"); err != nil || r != RoleViewer {
		t.Errorf("ParseRole(viewer) = %q, %v", r, err)
	}
	if _, err := ParseRole("root"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Expected ErrInvalidRole, got %v", err)
	}
}
