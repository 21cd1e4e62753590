package auth

import (
	"testing"
	"time"

	"github.com/courtsidehq/courtside/internal/api/authz"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(&authz.AuthUser{
		UserID:     42,
		CustomerID: 7,
		Role:       "customer",
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	user, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if user.UserID != 42 {
		t.Errorf("UserID = %d, want 42", user.UserID)
	}
	if user.CustomerID != 7 {
		t.Errorf("CustomerID = %d, want 7", user.CustomerID)
	}
	if user.Role != "customer" {
		t.Errorf("Role = %q, want customer", user.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(&authz.AuthUser{UserID: 1, Role: "customer"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected verification with wrong secret to fail")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(&authz.AuthUser{UserID: 1, Role: "customer"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not-a-token"); err == nil {
		t.Fatal("expected garbage token to fail verification")
	}
}
