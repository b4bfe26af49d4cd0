package session

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testKey = bytes.Repeat([]byte("k"), MinKeyBytes)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewSignerValidatesInput(t *testing.T) {
	t.Parallel()

	if _, err := NewSigner([]byte("short"), "subtrack", nil); err == nil {
		t.Fatal("expected short key error")
	}
	if _, err := NewSigner(testKey, "  ", nil); err == nil {
		t.Fatal("expected issuer error")
	}
}

func TestSignParseRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer, err := NewSigner(testKey, "subtrack", fixedClock(now))
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	token, err := signer.Sign("user-1", "sess-1", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := signer.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("user id = %q, want user-1", claims.UserID)
	}
	if claims.SessionID != "sess-1" {
		t.Fatalf("session id = %q, want sess-1", claims.SessionID)
	}
	if claims.TokenID == "" {
		t.Fatal("expected jti")
	}
	if !claims.IssuedAt.Equal(now) {
		t.Fatalf("issued at = %v, want %v", claims.IssuedAt, now)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires at = %v, want %v", claims.ExpiresAt, now.Add(time.Hour))
	}
}

func TestParseRejectsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer, _ := NewSigner(testKey, "subtrack", fixedClock(now))
	token, err := issuer.Sign("user-1", "sess-1", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	later, _ := NewSigner(testKey, "subtrack", fixedClock(now.Add(2*time.Minute)))
	if _, err := later.Parse(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("parse error = %v, want %v", err, ErrExpiredToken)
	}
}

func TestParseRejectsForeignTokens(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer, _ := NewSigner(testKey, "subtrack", fixedClock(now))
	otherKey, _ := NewSigner(bytes.Repeat([]byte("x"), MinKeyBytes), "subtrack", fixedClock(now))
	otherIssuer, _ := NewSigner(testKey, "elsewhere", fixedClock(now))

	wrongKey, _ := otherKey.Sign("user-1", "sess-1", now.Add(time.Hour))
	wrongIssuer, _ := otherIssuer.Sign("user-1", "sess-1", now.Add(time.Hour))
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss": "subtrack", "sub": "user-1", "sid": "sess-1", "exp": now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"iss": "subtrack", "sub": "user-1", "sid": "sess-1", "exp": now.Add(time.Hour).Unix(),
	}).SignedString(testKey)
	missingSID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "subtrack", "sub": "user-1", "exp": now.Add(time.Hour).Unix(),
	}).SignedString(testKey)

	tests := map[string]string{
		"empty":       "",
		"garbage":     "not.a.token",
		"wrong key":   wrongKey,
		"wrong iss":   wrongIssuer,
		"none alg":    noneAlg,
		"hs512":       hs512,
		"missing sid": missingSID,
	}
	for name, token := range tests {
		if _, err := signer.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: parse error = %v, want %v", name, err, ErrInvalidToken)
		}
	}
}

func TestSignRequiresIDs(t *testing.T) {
	t.Parallel()

	signer, _ := NewSigner(testKey, "subtrack", nil)
	if _, err := signer.Sign("", "sess", time.Now().Add(time.Hour)); err == nil {
		t.Fatal("expected missing user error")
	}
	if _, err := signer.Sign("user", " ", time.Now().Add(time.Hour)); err == nil {
		t.Fatal("expected missing session error")
	}
}

func TestDecodeKey(t *testing.T) {
	t.Parallel()

	raw := bytes.Repeat([]byte{0xfb}, MinKeyBytes)
	for _, encoded := range []string{
		base64.StdEncoding.EncodeToString(raw),
		base64.RawURLEncoding.EncodeToString(raw),
	} {
		got, err := DecodeKey(encoded)
		if err != nil {
			t.Fatalf("DecodeKey(%q): %v", encoded, err)
		}
		if !bytes.Equal(got, raw) {
			t.Fatalf("DecodeKey(%q) = %x, want %x", encoded, got, raw)
		}
	}
	if _, err := DecodeKey(""); err == nil {
		t.Fatal("expected empty key error")
	}
	if _, err := DecodeKey(base64.StdEncoding.EncodeToString([]byte("short"))); err == nil || !strings.Contains(err.Error(), "at least") {
		t.Fatalf("short key error = %v", err)
	}
	if _, err := DecodeKey("!!not base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
}
