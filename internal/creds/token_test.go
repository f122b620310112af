package creds

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIssueAndValidateRoundTrip(t *testing.T) {
	iss, err := NewIssuer([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	token, expiresAt, err := iss.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	identity, err := iss.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if identity != "alice" {
		t.Fatalf("unexpected identity: %s", identity)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	iss, err := NewIssuer([]byte("test-secret"), time.Minute)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	past := time.Now().Add(-2 * time.Hour)
	iss.WithClock(func() time.Time { return past })
	token, _, err := iss.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	iss.WithClock(time.Now)
	if _, err := iss.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateWrongKey(t *testing.T) {
	issA, err := NewIssuer([]byte("key-a"), time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	issB, err := NewIssuer([]byte("key-b"), time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	token, _, err := issA.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issB.Validate(token); !errors.Is(err, ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestValidateMalformedToken(t *testing.T) {
	iss, err := NewIssuer([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	for _, token := range []string{"", "   ", "not.a.jwt", "garbage"} {
		if _, err := iss.Validate(token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Validate(%q): expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestNewIssuerRequiresKey(t *testing.T) {
	if _, err := NewIssuer(nil, time.Hour); err == nil {
		t.Fatal("expected error for missing signing key")
	}
}

func TestContextIdentity(t *testing.T) {
	ctx := ContextWithIdentity(context.Background(), " alice ")
	id, ok := IdentityFromContext(ctx)
	if !ok || id != "alice" {
		t.Fatalf("unexpected identity: %q, ok=%v", id, ok)
	}
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity on fresh context")
	}
}
