package credential

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "too short", password: "1234567", wantErr: true},
		{name: "minimum", password: "12345678"},
		{name: "maximum", password: strings.Repeat("a", 72)},
		{name: "too long", password: strings.Repeat("a", 73), wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tc.password)
			if tc.wantErr != (err != nil) {
				t.Fatalf("ValidatePassword() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrPasswordLength) {
				t.Fatalf("error = %v, want %v", err, ErrPasswordLength)
			}
		})
	}
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := Hasher{Cost: bcrypt.MinCost}
	hash, err := hasher.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("expected hash to differ from password")
	}
	if err := hasher.Verify(hash, "correct horse"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := hasher.Verify(hash, "wrong horse"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("verify wrong password error = %v, want %v", err, ErrMismatch)
	}
	if err := hasher.Verify("not-a-hash", "correct horse"); err == nil || errors.Is(err, ErrMismatch) {
		t.Fatalf("verify malformed hash error = %v, want non-mismatch error", err)
	}
}

func TestHashRejectsShortPassword(t *testing.T) {
	t.Parallel()

	if _, err := (Hasher{Cost: bcrypt.MinCost}).Hash("short"); !errors.Is(err, ErrPasswordLength) {
		t.Fatalf("error = %v, want %v", err, ErrPasswordLength)
	}
}
