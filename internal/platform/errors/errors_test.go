package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/louisbranch/subtrack/internal/platform/i18n/catalog"
	"google.golang.org/grpc/codes"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	sentinel := New(CodeNotFound, "subscription not found")
	wrapped := fmt.Errorf("load: %w", New(CodeNotFound, "other message"))
	if !stderrors.Is(wrapped, sentinel) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(wrapped, New(CodeAuthEmailTaken, "")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "save failed", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if err.Error() != "save failed" {
		t.Fatalf("Error() = %q, want %q", err.Error(), "save failed")
	}
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	if got := GetCode(fmt.Errorf("x: %w", New(CodeProfilePhoneInvalid, "bad"))); got != CodeProfilePhoneInvalid {
		t.Fatalf("GetCode() = %q, want %q", got, CodeProfilePhoneInvalid)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("GetCode() = %q, want %q", got, CodeUnknown)
	}
	if IsDomainError(stderrors.New("plain")) {
		t.Fatal("plain errors are not domain errors")
	}
	if !IsDomainError(WithMetadata(CodeNotFound, "missing", map[string]string{"id": "x"})) {
		t.Fatal("expected domain error")
	}
}

func TestCodeMappings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		grpc codes.Code
		key  string
	}{
		{code: CodeSubscriptionBillingDayRange, grpc: codes.InvalidArgument, key: "error.subscription.billing_day_range"},
		{code: CodeSubscriptionMonthlyCostCents, grpc: codes.InvalidArgument, key: "error.subscription.monthly_cost_cents"},
		{code: CodeAuthInvalidCredentials, grpc: codes.Unauthenticated, key: "error.auth.invalid_credentials"},
		{code: CodeAuthEmailTaken, grpc: codes.AlreadyExists, key: "error.auth.email_taken"},
		{code: CodeNotFound, grpc: codes.NotFound, key: "error.not_found"},
		{code: Code("MYSTERY"), grpc: codes.Internal, key: "error.unknown"},
	}
	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.grpc {
			t.Fatalf("%s GRPCCode() = %v, want %v", tc.code, got, tc.grpc)
		}
		if got := tc.code.MessageKey(); got != tc.key {
			t.Fatalf("%s MessageKey() = %q, want %q", tc.code, got, tc.key)
		}
	}
}

func TestMessageKeysExistInCatalogs(t *testing.T) {
	t.Parallel()

	bundle := catalog.Default()
	for code, key := range messageKeys {
		for _, locale := range bundle.Locales() {
			messages := bundle.NamespaceMessages(locale, "errors")
			if _, ok := messages[key]; !ok {
				t.Fatalf("%s: key %q missing from %s errors catalog", code, key, locale)
			}
		}
	}
}
