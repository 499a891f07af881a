package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swadrive/swadrive-backend/internal/domain"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", 7*24*time.Hour)
	want := Identity{UserID: "u-1", Role: domain.RoleHelper}

	tok, err := iss.Issue(want)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := iss.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != want {
		t.Fatalf("identity mismatch: got %+v want %+v", got, want)
	}
}

func TestIssuer_ExpiresAfterTTL(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	iss := NewIssuer("secret", 7*24*time.Hour)
	iss.Now = fixedClock(start)

	tok, err := iss.Issue(Identity{UserID: "u", Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	iss.Now = fixedClock(start.Add(7*24*time.Hour - time.Minute))
	if _, err := iss.Verify(tok); err != nil {
		t.Fatalf("token should still be valid just before expiry: %v", err)
	}
	iss.Now = fixedClock(start.Add(7*24*time.Hour + time.Minute))
	if _, err := iss.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestIssuer_RejectsForeignAndTamperedTokens(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	tok, _ := other.Issue(Identity{UserID: "u", Role: domain.RoleCustomer})
	if _, err := iss.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("foreign signature should be malformed, got %v", err)
	}

	good, _ := iss.Issue(Identity{UserID: "u", Role: domain.RoleCustomer})
	parts := strings.Split(good, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))
	if _, err := iss.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("tampered token should be malformed, got %v", err)
	}

	if _, err := iss.Verify("not-a-jwt"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("garbage should be malformed, got %v", err)
	}
}

func TestIssuer_RejectsNoneAlgAndUnknownRole(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		UserID:           "u",
		Role:             domain.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := iss.Verify(s); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("alg none must be rejected, got %v", err)
	}

	admin, err := iss.Issue(Identity{UserID: "u", Role: "admin"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := iss.Verify(admin); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("unknown role must be rejected, got %v", err)
	}
}

func TestPassword_HashAndCheck(t *testing.T) {
	h, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "hunter22" || !CheckPassword(h, "hunter22") || CheckPassword(h, "hunter23") {
		t.Fatalf("hash/check mismatch")
	}
	if _, err := HashPassword("", 4); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	BurnPasswordCheck("anything")
}
