// Package errors provides structured domain errors with localization keys.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Auth errors
	CodeAuthInvalidEmail       Code = "AUTH_INVALID_EMAIL"
	CodeAuthPasswordLength     Code = "AUTH_PASSWORD_LENGTH"
	CodeAuthEmailTaken         Code = "AUTH_EMAIL_TAKEN"
	CodeAuthInvalidCredentials Code = "AUTH_INVALID_CREDENTIALS"
	CodeAuthUnauthenticated    Code = "AUTH_UNAUTHENTICATED"

	// Subscription errors
	CodeSubscriptionServiceNameRequired Code = "SUBSCRIPTION_SERVICE_NAME_REQUIRED"
	CodeSubscriptionMonthlyCostRequired Code = "SUBSCRIPTION_MONTHLY_COST_REQUIRED"
	CodeSubscriptionBillingDayRequired  Code = "SUBSCRIPTION_BILLING_DAY_REQUIRED"
	CodeSubscriptionCategoryRequired    Code = "SUBSCRIPTION_CATEGORY_REQUIRED"
	CodeSubscriptionBillingDayRange     Code = "SUBSCRIPTION_BILLING_DAY_RANGE"
	CodeSubscriptionMonthlyCostPositive Code = "SUBSCRIPTION_MONTHLY_COST_POSITIVE"
	CodeSubscriptionMonthlyCostCents    Code = "SUBSCRIPTION_MONTHLY_COST_CENTS"
	CodeSubscriptionColorInvalid        Code = "SUBSCRIPTION_COLOR_INVALID"
	CodeSubscriptionServiceNameTooLong  Code = "SUBSCRIPTION_SERVICE_NAME_TOO_LONG"
	CodeSubscriptionCategoryTooLong     Code = "SUBSCRIPTION_CATEGORY_TOO_LONG"

	// Profile errors
	CodeProfileFullNameTooLong Code = "PROFILE_FULL_NAME_TOO_LONG"
	CodeProfilePhoneInvalid    Code = "PROFILE_PHONE_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

var messageKeys = map[Code]string{
	CodeUnknown:                         "error.unknown",
	CodeAuthInvalidEmail:                "error.auth.invalid_email",
	CodeAuthPasswordLength:              "error.auth.password_length",
	CodeAuthEmailTaken:                  "error.auth.email_taken",
	CodeAuthInvalidCredentials:          "error.auth.invalid_credentials",
	CodeAuthUnauthenticated:             "error.auth.unauthenticated",
	CodeSubscriptionServiceNameRequired: "error.subscription.service_name_required",
	CodeSubscriptionMonthlyCostRequired: "error.subscription.monthly_cost_required",
	CodeSubscriptionBillingDayRequired:  "error.subscription.billing_day_required",
	CodeSubscriptionCategoryRequired:    "error.subscription.category_required",
	CodeSubscriptionBillingDayRange:     "error.subscription.billing_day_range",
	CodeSubscriptionMonthlyCostPositive: "error.subscription.monthly_cost_positive",
	CodeSubscriptionMonthlyCostCents:    "error.subscription.monthly_cost_cents",
	CodeSubscriptionColorInvalid:        "error.subscription.color_invalid",
	CodeSubscriptionServiceNameTooLong:  "error.subscription.service_name_too_long",
	CodeSubscriptionCategoryTooLong:     "error.subscription.category_too_long",
	CodeProfileFullNameTooLong:          "error.profile.full_name_too_long",
	CodeProfilePhoneInvalid:             "error.profile.phone_invalid",
	CodeNotFound:                        "error.not_found",
}

// MessageKey returns the catalog key holding the user-facing message for c.
func (c Code) MessageKey() string {
	if key, ok := messageKeys[c]; ok {
		return key
	}
	return messageKeys[CodeUnknown]
}

// GRPCCode maps domain codes to status codes. The web layer converts these to
// HTTP statuses.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeAuthInvalidEmail,
		CodeAuthPasswordLength,
		CodeSubscriptionServiceNameRequired,
		CodeSubscriptionMonthlyCostRequired,
		CodeSubscriptionBillingDayRequired,
		CodeSubscriptionCategoryRequired,
		CodeSubscriptionBillingDayRange,
		CodeSubscriptionMonthlyCostPositive,
		CodeSubscriptionMonthlyCostCents,
		CodeSubscriptionColorInvalid,
		CodeSubscriptionServiceNameTooLong,
		CodeSubscriptionCategoryTooLong,
		CodeProfileFullNameTooLong,
		CodeProfilePhoneInvalid:
		return codes.InvalidArgument

	case CodeAuthInvalidCredentials, CodeAuthUnauthenticated:
		return codes.Unauthenticated

	case CodeAuthEmailTaken:
		return codes.AlreadyExists

	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
