package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() should reject a short secret")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123", "author")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID() != "user-123" {
		t.Errorf("UserID() = %q, want %q", claims.UserID(), "user-123")
	}
	if claims.Role != "author" {
		t.Errorf("Role = %q, want %q", claims.Role, "author")
	}
}

func TestGenerate_DefaultRole(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123", "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.Role != "author" {
		t.Errorf("Role = %q, want default %q", claims.Role, "author")
	}
}

func TestGenerate_EmptyUserID(t *testing.T) {
	ts := newTestTokenService(t)

	if _, err := ts.Generate("", "author"); err == nil {
		t.Fatal("Generate() should reject an empty user id")
	}
}

func TestValidate_Expired(t *testing.T) {
	ts := newTestTokenService(t)

	// A negative duration mints a token that expired in the past.
	token, err := ts.GenerateWithDuration("user-123", "author", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	_, err = ts.Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)

	other, err := NewTokenService("a-completely-different-secret!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, err := other.Generate("user-123", "author")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = ts.Validate(token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Validate() error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	_, err := ts.Validate("not.a.jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Validate() error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidate_ExpiryWindow(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123", "author")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining > TokenTTL || remaining < TokenTTL-time.Minute {
		t.Errorf("token expiry %v from now, want about %v", remaining, TokenTTL)
	}
}
