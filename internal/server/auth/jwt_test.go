package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

func newTestCodec(t *testing.T, secret string, ttl time.Duration) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec(TokenConfig{Secret: secret, TTL: ttl})
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	return c
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "super-secret", time.Hour)

	tok, err := c.Issue("alice")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	sub, err := c.Validate(tok)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("subject mismatch: got %q want %q", sub, "alice")
	}
}

func TestValidate_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	c := newTestCodec(t, "secret", time.Hour).WithClock(clock.Now)

	tok, err := c.Issue("bob")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	clock.t = clock.t.Add(59 * time.Minute)
	if _, err := c.Validate(tok); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	clock.t = clock.t.Add(time.Minute + time.Second)
	_, err = c.Validate(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_ZeroTTLIsInvalid(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "secret", time.Hour)

	tok, err := c.IssueWithTTL("carol", 0)
	if err != nil {
		t.Fatalf("IssueWithTTL error: %v", err)
	}
	if _, err := c.Validate(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestValidate_NegativeTTL(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "secret", -1*time.Second)

	tok, err := c.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := c.Validate(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestCodec(t, "right-secret", time.Hour).Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = newTestCodec(t, "wrong-secret", time.Hour).Validate(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_TamperedPayload(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "k", time.Hour)
	tok, err := c.Issue("u3")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(tok, ".")
	other, _ := c.Issue("admin")
	parts[1] = strings.Split(other, ".")[1] + "x"

	if _, err := c.Validate(strings.Join(parts, ".")); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_AlgorithmMustMatch(t *testing.T) {
	t.Parallel()

	hs512, err := NewTokenCodec(TokenConfig{Secret: "k", Algorithm: "HS512", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	tok, err := hs512.Issue("u4")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := newTestCodec(t, "k", time.Hour).Validate(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512 token on HS256 codec, got %v", err)
	}
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "mallory",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := newTestCodec(t, "k", time.Hour).Validate(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_MissingSubjectOrExpiry(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	c := newTestCodec(t, "k", time.Hour)

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	if _, err := c.Validate(noSub); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for token without subject, got %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u5",
	}).SignedString(secret)
	if _, err := c.Validate(noExp); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for token without expiry, got %v", err)
	}
}

func TestValidate_MalformedString(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "k", time.Hour)
	for _, s := range []string{"", "not.a.jwt", "abc"} {
		if _, err := c.Validate(s); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("Validate(%q): expected ErrInvalidToken, got %v", s, err)
		}
	}
}

func TestNewTokenCodec_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenCodec(TokenConfig{Secret: ""}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, err := NewTokenCodec(TokenConfig{Secret: "k", Algorithm: "RS256"}); err == nil {
		t.Fatalf("expected error for non-HMAC algorithm")
	}
	if _, err := NewTokenCodec(TokenConfig{Secret: "k", Algorithm: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
}

func TestIssue_EmptySubject(t *testing.T) {
	t.Parallel()

	_, err := newTestCodec(t, "k", time.Hour).Issue("")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
