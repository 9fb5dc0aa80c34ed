package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/utsabduwadi/bank-management-system/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "bank-test", time.Hour)
	raw, err := tm.Generate(Identity{Username: "alice", Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	id, err := tm.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.Username != "alice" || id.Role != models.RoleCustomer {
		t.Fatalf("identity = %+v", id)
	}
}

func TestTokenRejectsForeignSecretAndIssuer(t *testing.T) {
	tm := NewTokenManager("secret", "bank-test", time.Hour)
	raw, err := NewTokenManager("other", "bank-test", time.Hour).Generate(Identity{Username: "a", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := tm.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret: err = %v", err)
	}

	raw, err = NewTokenManager("secret", "someone-else", time.Hour).Generate(Identity{Username: "a", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := tm.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign issuer: err = %v", err)
	}
}

func TestTokenExpires(t *testing.T) {
	tm := NewTokenManager("secret", "bank-test", time.Minute)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }
	raw, err := tm.Generate(Identity{Username: "alice", Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	tm.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := tm.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: err = %v", err)
	}
}
